package utils

import (
	"regexp"
	"strings"
)

var codeFencePattern = regexp.MustCompile("(?s)^```[\\w+-]*[ \\t]*\\n(.*?)\\n?```$")

// SanitizeCommitMessage reduces generated text to a single commit subject
// line. The result is a fixed point: sanitizing it again returns it unchanged.
func SanitizeCommitMessage(raw string) string {
	msg := raw
	for {
		next := sanitizePass(msg)
		if next == msg {
			return msg
		}
		// every pass only removes text, so this terminates
		msg = next
	}
}

func sanitizePass(raw string) string {
	msg := strings.TrimSpace(raw)

	if m := codeFencePattern.FindStringSubmatch(msg); m != nil {
		msg = strings.TrimSpace(m[1])
	}

	if len(msg) >= 2 && !strings.Contains(msg, "\n") && strings.HasPrefix(msg, "`") && strings.HasSuffix(msg, "`") {
		msg = msg[1 : len(msg)-1]
	}

	if len(msg) >= 2 && (quotedWith(msg, '"') || quotedWith(msg, '\'')) {
		msg = msg[1 : len(msg)-1]
	}

	msg = subjectLine(msg)
	msg = strings.TrimSuffix(msg, ".")
	return strings.TrimSpace(msg)
}

func quotedWith(s string, quote byte) bool {
	return s[0] == quote && s[len(s)-1] == quote
}

// subjectLine picks the first conventional subject found on any line, or
// else the first non-blank line.
func subjectLine(msg string) string {
	lines := strings.Split(msg, "\n")
	for _, line := range lines {
		if subject := findConventional(strings.TrimRight(line, "\r")); subject != "" {
			return strings.TrimSpace(subject)
		}
	}
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return msg
}
