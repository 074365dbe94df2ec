package code_analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/embed_data"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.uber.org/zap"
)

// CodeAnalyzer extracts declaration outlines from source files.
type CodeAnalyzer struct {
	logger *zap.Logger
}

// NewCodeAnalyzer initializes a new CodeAnalyzer.
func NewCodeAnalyzer(logger *zap.Logger) *CodeAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeAnalyzer{logger: logger}
}

type grammar struct {
	language *sitter.Language
	queries  []byte
}

func grammarFor(language string) (grammar, bool) {
	switch language {
	case "go":
		return grammar{golang.GetLanguage(), embed_data.GoQuery}, true
	case "python":
		return grammar{python.GetLanguage(), embed_data.PythonQuery}, true
	case "javascript":
		return grammar{javascript.GetLanguage(), embed_data.JavascriptQuery}, true
	case "typescript":
		return grammar{typescript.GetLanguage(), embed_data.TypescriptQuery}, true
	}
	return grammar{}, false
}

type declaration struct {
	start uint32
	text  string
}

// Outline returns the declarations of the file at filePath as "kind: name"
// entries in source order. Unsupported languages and parse failures yield nil.
func (analyzer *CodeAnalyzer) Outline(filePath string, sourceCode []byte) []string {
	language := GetSupportedLanguage(filePath)
	if language == "rust" {
		// no tree-sitter grammar is wired for rust
		return extractRustStructure(string(sourceCode))
	}

	g, ok := grammarFor(language)
	if !ok {
		return nil
	}

	decls, err := analyzer.query(g, sourceCode)
	if err != nil {
		analyzer.logger.Debug("outline failed", zap.String("path", filePath), zap.Error(err))
		return nil
	}

	sort.SliceStable(decls, func(i, j int) bool { return decls[i].start < decls[j].start })
	elements := make([]string, len(decls))
	for i, d := range decls {
		elements[i] = d.text
	}
	return elements
}

func (analyzer *CodeAnalyzer) query(g grammar, sourceCode []byte) ([]declaration, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.language)

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse source")
	}
	defer tree.Close()

	queries := make(map[string]string)
	if err := json.Unmarshal(g.queries, &queries); err != nil {
		return nil, errors.Wrap(err, "failed to parse queries")
	}

	var decls []declaration
	for tag, queryStr := range queries {
		q, err := sitter.NewQuery([]byte(queryStr), g.language)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile %s query", tag)
		}

		cursor := sitter.NewQueryCursor()
		cursor.Exec(q, tree.RootNode())
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			for _, capture := range match.Captures {
				decls = append(decls, declaration{
					start: capture.Node.StartByte(),
					text:  fmt.Sprintf("%s: %s", tag, capture.Node.Content(sourceCode)),
				})
			}
		}
		cursor.Close()
		q.Close()
	}
	return decls, nil
}

var rustPatterns = []struct {
	tag     string
	pattern *regexp.Regexp
}{
	{"function", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(\w+)`)},
	{"struct", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+(\w+)`)},
	{"enum", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?enum\s+(\w+)`)},
	{"trait", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?trait\s+(\w+)`)},
	{"impl", regexp.MustCompile(`^\s*impl(?:\s*<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`)},
	{"mod", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?mod\s+(\w+)`)},
	{"const", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?const\s+(\w+)`)},
	{"static", regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?static\s+(\w+)`)},
}

// extractRustStructure extracts basic Rust code structure using regex patterns
func extractRustStructure(sourceCode string) []string {
	var elements []string
	for _, line := range strings.Split(sourceCode, "\n") {
		for _, p := range rustPatterns {
			if matches := p.pattern.FindStringSubmatch(line); matches != nil {
				elements = append(elements, fmt.Sprintf("%s: %s", p.tag, matches[1]))
				break
			}
		}
	}
	return elements
}
