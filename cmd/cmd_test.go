package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/maty-millien/pushit/git"
	"github.com/maty-millien/pushit/snapshot"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubRepo struct {
	dryRun bool
}

func (s *stubRepo) Branch(context.Context) string { return "feat/42-retry" }

func (s *stubRepo) ChangedFiles(_ context.Context, opts git.Options) ([]string, error) {
	s.dryRun = opts.DryRun
	return []string{"main.go"}, nil
}

func (s *stubRepo) Status(context.Context) (string, error) { return "M  main.go", nil }

func (s *stubRepo) StagedDiff(context.Context, git.Options) (string, error) {
	return "diff --git a/main.go b/main.go\n+retry()", nil
}

func (s *stubRepo) DiffStats(context.Context, git.Options) ([]git.FileDiffStats, error) {
	return []git.FileDiffStats{{Path: "main.go", Insertions: 1}}, nil
}

func (s *stubRepo) CommitHistory(context.Context, int) []string { return []string{"feat: add client"} }

func TestHandlePromptCommand(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "main.go", []byte("package main\n\nfunc retry() {}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "go.mod", []byte("module example.com/retry\n"), 0o644))

	repo := &stubRepo{}
	aggregator := snapshot.NewAggregator(repo, fsys, snapshot.DefaultLimits, nil, zaptest.NewLogger(t))

	var out bytes.Buffer
	require.NoError(t, handlePromptCommand(context.Background(), aggregator, 0, git.Options{DryRun: true}, &out))

	prompt := out.String()
	assert.True(t, repo.dryRun)
	assert.Contains(t, prompt, "- Branch: feat/42-retry")
	assert.Contains(t, prompt, "- Related Issue: #42")
	assert.Contains(t, prompt, "main.go (modified)")
	assert.Contains(t, prompt, "+retry()")
	assert.Contains(t, prompt, "feat: add client")
	assert.Contains(t, prompt, "example.com/retry")
	assert.NotContains(t, prompt, "{{")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "pushit dev\n", out.String())
}
