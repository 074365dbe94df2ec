package utils

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderDiff writes diff to w with syntax highlighting in the given chroma
// theme. The plain text is written when highlighting fails.
func RenderDiff(w io.Writer, diff string, theme string) error {
	if diff == "" {
		return nil
	}
	if !strings.HasSuffix(diff, "\n") {
		diff += "\n"
	}
	if err := quick.Highlight(w, diff, "diff", "terminal256", theme); err != nil {
		_, werr := io.WriteString(w, diff)
		return werr
	}
	return nil
}
