package code_analyzer

import (
	"path/filepath"
	"strings"
)

var languageByExtension = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".ts":  "typescript",
	".mts": "typescript",
	".cts": "typescript",
	".rs":  "rust",
}

// GetSupportedLanguage maps a file path to the language its outline is
// built with, or "" when the file is not outlined.
func GetSupportedLanguage(filePath string) string {
	return languageByExtension[strings.ToLower(filepath.Ext(filePath))]
}
