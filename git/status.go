package git

import (
	"strconv"
	"strings"
)

// FileStatusType is the resolved change kind of a path.
type FileStatusType string

const (
	StatusAdded    FileStatusType = "added"
	StatusModified FileStatusType = "modified"
	StatusDeleted  FileStatusType = "deleted"
	StatusRenamed  FileStatusType = "renamed"
	StatusCopied   FileStatusType = "copied"
)

var statusCodes = map[byte]FileStatusType{
	'A': StatusAdded,
	'M': StatusModified,
	'D': StatusDeleted,
	'R': StatusRenamed,
	'C': StatusCopied,
}

const renameSeparator = " -> "

// FileStatus is one entry of short-format status output.
// OldPath is set only for renamed and copied entries.
type FileStatus struct {
	Path    string
	Status  FileStatusType
	OldPath string
}

// FileDiffStats holds the numstat counts of one path.
type FileDiffStats struct {
	Path       string
	Insertions int
	Deletions  int
}

// ParseStatus parses "git status --short" output.
func ParseStatus(raw string) []FileStatus {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var files []FileStatus
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 3 {
			continue
		}
		files = append(files, parseStatusLine(line))
	}
	return files
}

func parseStatusLine(line string) FileStatus {
	index, worktree := line[0], line[1]
	path := strings.TrimLeft(line[2:], " \t")

	if index == '?' {
		return FileStatus{Path: unquotePath(path), Status: StatusAdded}
	}

	code := worktree
	if index != ' ' {
		code = index
	}

	status, ok := statusCodes[code]
	if !ok {
		status = StatusModified
	}

	if status == StatusRenamed || status == StatusCopied {
		if old, current, found := strings.Cut(path, renameSeparator); found {
			return FileStatus{Path: unquotePath(current), Status: status, OldPath: unquotePath(old)}
		}
		// no separator: keep the whole remainder as the path and report it as
		// modified so that OldPath stays tied to rename and copy entries
		return FileStatus{Path: unquotePath(path), Status: StatusModified}
	}

	return FileStatus{Path: unquotePath(path), Status: status}
}

// unquotePath undoes git's C-style quoting of paths with unusual characters.
func unquotePath(path string) string {
	if len(path) < 2 || path[0] != '"' || path[len(path)-1] != '"' {
		return path
	}
	if unquoted, err := strconv.Unquote(path); err == nil {
		return unquoted
	}
	return path
}

// ParseDiffStats parses "git diff --numstat" output. Binary files report "-"
// for both counts and parse as zero.
func ParseDiffStats(raw string) []FileDiffStats {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var stats []FileDiffStats
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		stats = append(stats, FileDiffStats{
			Path:       fields[2],
			Insertions: parseCount(fields[0]),
			Deletions:  parseCount(fields[1]),
		})
	}
	return stats
}

func parseCount(field string) int {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Totals sums insertions and deletions across stats.
func Totals(stats []FileDiffStats) (insertions, deletions int) {
	for _, s := range stats {
		insertions += s.Insertions
		deletions += s.Deletions
	}
	return insertions, deletions
}
