package utils

import (
	"regexp"
	"strings"
)

// CommitTypes is the set of conventional-commit types accepted in a subject line.
var CommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore", "revert",
}

// conventionalPattern matches "type[(scope)][!]: description" anywhere in a line.
var conventionalPattern = regexp.MustCompile(
	`\b(?:` + strings.Join(CommitTypes, "|") + `)(?:\([^)\n]+\))?!?:[ \t]*\S.*$`,
)

// anchoredConventionalPattern requires the whole line to be a subject.
var anchoredConventionalPattern = regexp.MustCompile(`^` + conventionalPattern.String())

// IsConventional reports whether message is a single conventional-commit subject line.
func IsConventional(message string) bool {
	return !strings.Contains(message, "\n") && anchoredConventionalPattern.MatchString(message)
}

// findConventional returns the conventional subject contained in line, or "".
func findConventional(line string) string {
	return conventionalPattern.FindString(line)
}
