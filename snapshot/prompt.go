package snapshot

import (
	"fmt"
	"strings"

	"github.com/maty-millien/pushit/git"
)

const (
	emptySlot             = "None"
	promptTruncatedMarker = "\n... (truncated)"
)

// RenderPrompt fills the {{slot}} placeholders of template from snap. Empty
// fields render as "None". A result longer than maxPromptChars bytes is cut
// and marked; a non-positive ceiling disables the cut.
func RenderPrompt(snap *Snapshot, template string, maxPromptChars int) string {
	slots := map[string]string{
		"project":       renderProject(snap.Project),
		"branch":        snap.Branch,
		"issue":         renderIssue(snap.LinkedIssue),
		"commitHistory": strings.Join(snap.CommitHistory, "\n"),
		"changedFiles":  renderChangedFiles(snap),
		"diffStats":     renderDiffStats(snap.DiffStats),
		"status":        snap.Status,
		"diff":          snap.Diff,
		"fileContents":  renderFileContents(snap),
		"outline":       renderOutlines(snap),
	}

	pairs := make([]string, 0, len(slots)*2)
	for name, value := range slots {
		if strings.TrimSpace(value) == "" {
			value = emptySlot
		}
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	// a single pass, so slot syntax inside a diff is left alone
	prompt := strings.NewReplacer(pairs...).Replace(template)

	if maxPromptChars > 0 && len(prompt) > maxPromptChars {
		prompt = cutUTF8(prompt, maxPromptChars) + promptTruncatedMarker
	}
	return prompt
}

func renderProject(p ProjectInfo) string {
	kind := p.Kind
	if kind == "" {
		kind = ProjectUnknown
	}
	lines := []string{"- Type: " + string(kind)}
	if p.Name != "" {
		lines = append(lines, "- Name: "+p.Name)
	}
	if p.Version != "" {
		lines = append(lines, "- Version: "+p.Version)
	}
	return strings.Join(lines, "\n")
}

func renderIssue(issue string) string {
	if issue == "" {
		return ""
	}
	return "#" + issue
}

// renderChangedFiles annotates each changed path with its parsed status
// when one is known.
func renderChangedFiles(snap *Snapshot) string {
	byPath := make(map[string]git.FileStatus, len(snap.Files))
	for _, f := range snap.Files {
		byPath[f.Path] = f
	}

	lines := make([]string, 0, len(snap.ChangedFiles))
	for _, path := range snap.ChangedFiles {
		f, ok := byPath[path]
		switch {
		case !ok:
			lines = append(lines, path)
		case f.OldPath != "":
			lines = append(lines, fmt.Sprintf("%s (%s from %s)", path, f.Status, f.OldPath))
		default:
			lines = append(lines, fmt.Sprintf("%s (%s)", path, f.Status))
		}
	}
	return strings.Join(lines, "\n")
}

func renderDiffStats(stats []git.FileDiffStats) string {
	if len(stats) == 0 {
		return ""
	}
	lines := make([]string, 0, len(stats)+1)
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("%s +%d -%d", s.Path, s.Insertions, s.Deletions))
	}
	ins, del := git.Totals(stats)
	lines = append(lines, fmt.Sprintf("%d file(s) changed, %d insertion(s), %d deletion(s)", len(stats), ins, del))
	return strings.Join(lines, "\n")
}

// renderFileContents follows the order of ChangedFiles so output is stable.
func renderFileContents(snap *Snapshot) string {
	var sections []string
	for _, path := range snap.ChangedFiles {
		if content, ok := snap.FileContents[path]; ok {
			sections = append(sections, fmt.Sprintf("--- %s ---\n%s", path, content))
		}
	}
	return strings.Join(sections, "\n\n")
}

func renderOutlines(snap *Snapshot) string {
	var sections []string
	for _, path := range snap.ChangedFiles {
		decls := snap.Outlines[path]
		if len(decls) == 0 {
			continue
		}
		sections = append(sections, path+":\n  "+strings.Join(decls, "\n  "))
	}
	return strings.Join(sections, "\n")
}
