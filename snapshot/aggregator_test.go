package snapshot

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRepo struct {
	branch    string
	files     []string
	status    string
	diff      string
	stats     []git.FileDiffStats
	history   []string
	statusErr error

	gotOpts    git.Options
	gotHistory int
}

func (f *fakeRepo) Branch(context.Context) string { return f.branch }

func (f *fakeRepo) ChangedFiles(_ context.Context, opts git.Options) ([]string, error) {
	f.gotOpts = opts
	return f.files, nil
}

func (f *fakeRepo) Status(context.Context) (string, error) { return f.status, f.statusErr }

func (f *fakeRepo) StagedDiff(context.Context, git.Options) (string, error) { return f.diff, nil }

func (f *fakeRepo) DiffStats(context.Context, git.Options) ([]git.FileDiffStats, error) {
	return f.stats, nil
}

func (f *fakeRepo) CommitHistory(_ context.Context, count int) []string {
	f.gotHistory = count
	return f.history
}

type fakeOutliner struct{}

func (fakeOutliner) Outline(path string, source []byte) []string {
	if !strings.HasSuffix(path, ".go") {
		return nil
	}
	return []string{"source: " + strings.SplitN(string(source), "\n", 2)[0]}
}

func TestAggregator_Build(t *testing.T) {
	repo := &fakeRepo{
		branch:  "feat/42-retry",
		files:   []string{"client.go", "logo.png", "notes.txt"},
		status:  "M  client.go\nA  logo.png\n?? notes.txt",
		diff:    section("client.go", "+retry\n") + section("logo.png", "Binary files differ\n"),
		stats:   []git.FileDiffStats{{Path: "client.go", Insertions: 1}},
		history: []string{"feat: add client"},
	}
	fsys := memFs(t, map[string]string{
		"go.mod":    "module example.com/retry\n",
		"client.go": "package client\nfunc Retry() {}\n",
		"logo.png":  "\x89PNG",
		"notes.txt": "todo",
	})
	limits := DefaultLimits

	agg := NewAggregator(repo, fsys, limits, fakeOutliner{}, zaptest.NewLogger(t))
	snap, err := agg.Build(context.Background(), git.Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, git.Options{DryRun: true}, repo.gotOpts)
	assert.Equal(t, 20, repo.gotHistory)

	assert.Equal(t, "feat/42-retry", snap.Branch)
	assert.Equal(t, "42", snap.LinkedIssue)
	assert.Equal(t, repo.diff, snap.Diff)
	assert.False(t, snap.DiffTruncated)
	assert.Equal(t, ProjectInfo{Kind: ProjectGo, Name: "example.com/retry"}, snap.Project)
	assert.Equal(t, []git.FileStatus{
		{Path: "client.go", Status: git.StatusModified},
		{Path: "logo.png", Status: git.StatusAdded},
		{Path: "notes.txt", Status: git.StatusAdded},
	}, snap.Files)
	assert.Equal(t, map[string]string{
		"client.go": "package client\nfunc Retry() {}\n",
		"notes.txt": "todo",
	}, snap.FileContents)
	assert.Equal(t, map[string][]string{"client.go": {"source: package client"}}, snap.Outlines)
}

func TestAggregator_BuildBudgetsDiff(t *testing.T) {
	repo := &fakeRepo{
		branch: "main",
		diff:   section("a", strings.Repeat("+a\n", 50)) + section("b", strings.Repeat("+b\n", 50)),
	}
	limits := DefaultLimits
	limits.MaxDiffChars = 200
	limits.IncludeFileContents = false

	snap, err := NewAggregator(repo, memFs(t, nil), limits, nil, nil).Build(context.Background(), git.Options{})
	require.NoError(t, err)

	assert.True(t, snap.DiffTruncated)
	assert.LessOrEqual(t, len(snap.Diff), 200)
	assert.Contains(t, snap.Diff, "(1 more file(s) truncated)")
	assert.Nil(t, snap.FileContents)
	assert.Empty(t, snap.LinkedIssue)
}

func TestAggregator_BuildPropagatesQueryFailure(t *testing.T) {
	cmdErr := &git.CommandError{Args: []string{"status", "--short"}, ExitCode: 128, Stderr: "fatal"}
	repo := &fakeRepo{branch: "main", statusErr: cmdErr}

	_, err := NewAggregator(repo, memFs(t, nil), DefaultLimits, nil, nil).Build(context.Background(), git.Options{})

	var got *git.CommandError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 128, got.ExitCode)
}
