package snapshot

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const diffSectionHeader = "diff --git "

func omittedMarker(n int) string {
	return fmt.Sprintf("\n... (%d more file(s) truncated)", n)
}

// TruncateDiff fits diff into maxChars bytes. It keeps whole per-file
// sections and appends a marker counting the omitted files; the marker is
// part of the budget. When not even the first section fits, a prefix of it
// cut at a line boundary is kept instead.
func TruncateDiff(diff string, maxChars int) string {
	if len(diff) <= maxChars {
		return diff
	}

	sections := splitDiffSections(diff)
	// the widest marker this diff can produce
	reserve := len(omittedMarker(len(sections)))
	if maxChars < reserve {
		return ""
	}

	var b strings.Builder
	kept := 0
	for _, section := range sections {
		if b.Len()+len(section)+reserve > maxChars {
			break
		}
		b.WriteString(section)
		kept++
	}

	if kept == 0 {
		prefix := cutUTF8(sections[0], maxChars-reserve)
		if i := strings.LastIndexByte(prefix, '\n'); i > 0 {
			prefix = prefix[:i]
		}
		b.WriteString(prefix)
		kept = 1
	}

	b.WriteString(omittedMarker(len(sections) - kept))
	return b.String()
}

// splitDiffSections splits at every line that starts a per-file header. Any
// text before the first header stays attached to the first section.
func splitDiffSections(diff string) []string {
	var sections []string
	start := 0
	for i := 0; i < len(diff); {
		next := strings.IndexByte(diff[i:], '\n')
		lineStart := i
		if next < 0 {
			i = len(diff)
		} else {
			i += next + 1
		}
		if lineStart > start && strings.HasPrefix(diff[lineStart:], diffSectionHeader) {
			sections = append(sections, diff[start:lineStart])
			start = lineStart
		}
	}
	return append(sections, diff[start:])
}

// cutUTF8 returns at most n bytes of s without splitting a rune.
func cutUTF8(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
