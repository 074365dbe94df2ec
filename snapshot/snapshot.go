// Package snapshot gathers the pending changes of a work tree into a single
// read-only Snapshot and renders it into the generation prompt.
package snapshot

import (
	"github.com/maty-millien/pushit/git"
)

// ProjectKind identifies the manifest that was detected at the work-tree root.
type ProjectKind string

const (
	ProjectBun     ProjectKind = "bun"
	ProjectNode    ProjectKind = "node"
	ProjectRust    ProjectKind = "rust"
	ProjectPython  ProjectKind = "python"
	ProjectGo      ProjectKind = "go"
	ProjectUnknown ProjectKind = "unknown"
)

// ProjectInfo describes the project owning the work tree.
type ProjectInfo struct {
	Kind    ProjectKind
	Name    string
	Version string
}

// Snapshot is built once per run by Aggregator.Build and only read afterwards.
type Snapshot struct {
	Branch        string
	LinkedIssue   string
	Diff          string
	DiffTruncated bool
	Status        string
	Files         []git.FileStatus
	DiffStats     []git.FileDiffStats
	ChangedFiles  []string
	FileContents  map[string]string
	Outlines      map[string][]string
	CommitHistory []string
	Project       ProjectInfo
}

// Limits bounds how much of the work tree ends up in a snapshot.
type Limits struct {
	MaxDiffChars        int
	HistoryCount        int
	IncludeFileContents bool
	MaxFileSize         int64
	MaxLinesPerFile     int
}

// DefaultLimits mirrors the configuration defaults.
var DefaultLimits = Limits{
	MaxDiffChars:        30000,
	HistoryCount:        20,
	IncludeFileContents: true,
	MaxFileSize:         50 * 1024,
	MaxLinesPerFile:     500,
}
