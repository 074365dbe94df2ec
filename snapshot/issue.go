package snapshot

import "regexp"

// issuePatterns are tried in order against the branch name.
var issuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(\d+)-`),       // feat/123-add-login
	regexp.MustCompile(`/([A-Z]+-\d+)`), // feat/PROJ-123-add-login
	regexp.MustCompile(`(?i)issue-(\d+)`),
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`-(\d+)$`), // feature-123
}

// ExtractIssueFromBranch returns the issue reference embedded in a branch
// name, or "" when the branch does not reference one.
func ExtractIssueFromBranch(branch string) string {
	for _, pattern := range issuePatterns {
		if m := pattern.FindStringSubmatch(branch); m != nil {
			return m[1]
		}
	}
	return ""
}
