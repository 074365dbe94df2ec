package snapshot

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const fileTruncatedMarker = "\n... (truncated)"

var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {}, ".svg": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".pdf": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".rar": {},
	".mp3": {}, ".mp4": {}, ".wav": {}, ".avi": {}, ".mov": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {},
	".lock": {}, ".lockb": {},
}

// IsBinaryPath reports whether path has an extension that is never read as text.
func IsBinaryPath(path string) bool {
	_, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadFileContents reads the text of each file in files, relative to the
// root of fsys. Binary, oversized and unreadable files are left out; long
// files are cut to limits.MaxLinesPerFile lines.
func ReadFileContents(ctx context.Context, fsys afero.Fs, files []string, limits Limits) map[string]string {
	contents := make(map[string]string, len(files))
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		if IsBinaryPath(file) {
			continue
		}

		info, err := fsys.Stat(file)
		if err != nil || info.IsDir() || info.Size() > limits.MaxFileSize {
			continue
		}
		data, err := afero.ReadFile(fsys, file)
		if err != nil {
			continue
		}

		contents[file] = limitLines(string(data), limits.MaxLinesPerFile)
	}
	return contents
}

func limitLines(text string, maxLines int) string {
	if maxLines <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	return strings.Join(lines[:maxLines], "\n") + fileTruncatedMarker
}
