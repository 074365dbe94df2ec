package git

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeRunner answers git invocations from a table keyed by the joined argument vector.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]Result
	calls     []string
}

func newFakeRunner(responses map[string]Result) *fakeRunner {
	return &fakeRunner{responses: responses}
}

func (f *fakeRunner) Run(_ context.Context, args ...string) Result {
	key := strings.Join(args, " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if res, ok := f.responses[key]; ok {
		return res
	}
	return Result{Success: true}
}

func (f *fakeRunner) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func ok(stdout string) Result { return Result{Stdout: stdout, Success: true} }

func failed(code int, stderr string) Result {
	return Result{ExitCode: code, Stderr: stderr}
}

func TestClient_DryRunMutationsAreNoOps(t *testing.T) {
	runner := newFakeRunner(nil)
	client := NewClient(runner, zaptest.NewLogger(t))
	ctx := context.Background()
	opts := Options{DryRun: true}

	assert.Equal(t, CommandResult{Success: true}, client.StageAll(ctx, opts))
	assert.Equal(t, CommandResult{Success: true}, client.Commit(ctx, "feat: x", opts))
	assert.Equal(t, CommandResult{Success: true}, client.Push(ctx, opts))
	assert.Equal(t, CommandResult{Success: true}, client.Unstage(ctx, opts))
	assert.Empty(t, runner.calls)
}

func TestClient_Mutations(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"commit -m feat: add thing": failed(1, "nothing to commit"),
	})
	client := NewClient(runner, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.True(t, client.StageAll(ctx, Options{}).Success)
	assert.True(t, runner.called("add -A"))

	res := client.Commit(ctx, "feat: add thing", Options{})
	assert.False(t, res.Success)
	assert.Equal(t, "nothing to commit", res.Error)

	assert.True(t, client.Unstage(ctx, Options{}).Success)
	assert.True(t, runner.called("reset"))
}

func TestClient_PushFallsBackToUpstream(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"push":                  failed(128, "no upstream"),
		"branch --show-current": ok("feat/42-login"),
	})
	client := NewClient(runner, zaptest.NewLogger(t))

	res := client.Push(context.Background(), Options{})

	assert.True(t, res.Success)
	assert.True(t, runner.called("push --set-upstream origin feat/42-login"))
}

func TestClient_PushReportsUpstreamFailure(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"push":                            failed(128, "no upstream"),
		"branch --show-current":           ok("main"),
		"push --set-upstream origin main": failed(128, "remote rejected"),
	})
	client := NewClient(runner, zaptest.NewLogger(t))

	res := client.Push(context.Background(), Options{})

	assert.False(t, res.Success)
	assert.Equal(t, "remote rejected", res.Error)
}

func TestClient_BranchFallback(t *testing.T) {
	client := NewClient(newFakeRunner(map[string]Result{"branch --show-current": ok("")}), nil)
	assert.Equal(t, "main", client.Branch(context.Background()))
}

func TestClient_IsRepo(t *testing.T) {
	inside := NewClient(newFakeRunner(map[string]Result{"rev-parse --is-inside-work-tree": ok("true")}), nil)
	assert.True(t, inside.IsRepo(context.Background()))

	outside := NewClient(newFakeRunner(map[string]Result{"rev-parse --is-inside-work-tree": failed(128, "fatal")}), nil)
	assert.False(t, outside.IsRepo(context.Background()))
}

func TestClient_HasChanges(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]Result
		want      bool
	}{
		{name: "clean", responses: map[string]Result{}, want: false},
		{name: "staged", responses: map[string]Result{"diff --cached --quiet": failed(1, "")}, want: true},
		{name: "unstaged", responses: map[string]Result{"diff --quiet": failed(1, "")}, want: true},
		{name: "untracked", responses: map[string]Result{"ls-files --others --exclude-standard": ok("new.txt")}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(newFakeRunner(tt.responses), nil)
			got, err := client.HasChanges(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_HasChangesSurfacesFailures(t *testing.T) {
	client := NewClient(newFakeRunner(map[string]Result{"diff --quiet": failed(128, "fatal: bad object")}), nil)

	_, err := client.HasChanges(context.Background())

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 128, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "bad object")
}

func TestClient_StagedDiff(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"diff --cached":                        ok("diff --git a/a.go b/a.go\n+staged"),
		"diff":                                 ok("diff --git a/b.go b/b.go\n+unstaged"),
		"ls-files --others --exclude-standard -z": ok("c.go\x00"),
		"diff --no-index -- /dev/null c.go":       {Stdout: "diff --git a/c.go b/c.go\n+untracked", ExitCode: 1},
	})
	client := NewClient(runner, nil)
	ctx := context.Background()

	staged, err := client.StagedDiff(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/a.go b/a.go\n+staged", staged)

	union, err := client.StagedDiff(ctx, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/a.go b/a.go\n+staged\ndiff --git a/b.go b/b.go\n+unstaged\ndiff --git a/c.go b/c.go\n+untracked", union)
}

func TestClient_ChangedFilesDryRunIsDeduplicated(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"diff --cached --name-only -z":            ok("a.go\x00b.go\x00"),
		"diff --name-only -z":                     ok("b.go\x00c.go\x00"),
		"ls-files --others --exclude-standard -z": ok("d.go\x00a.go\x00"),
	})
	client := NewClient(runner, nil)

	files, err := client.ChangedFiles(context.Background(), Options{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "c.go", "d.go"}, files)
}

func TestClient_DiffStatsDryRun(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"diff --cached --numstat": ok("1\t2\ta.go"),
		"diff --numstat":          ok("-\t-\tlogo.png"),
	})
	client := NewClient(runner, nil)

	stats, err := client.DiffStats(context.Background(), Options{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, []FileDiffStats{
		{Path: "a.go", Insertions: 1, Deletions: 2},
		{Path: "logo.png"},
	}, stats)
}

func TestClient_DiffStatsDryRunIncludesUntracked(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"diff --cached --numstat":                          ok("1\t2\ta.go"),
		"ls-files --others --exclude-standard -z":          ok("new.go\x00broken.go\x00"),
		"diff --no-index --numstat -- /dev/null new.go":    {Stdout: "3\t0\tnew.go", ExitCode: 1},
		"diff --no-index --numstat -- /dev/null broken.go": failed(128, "fatal: cannot read"),
	})
	client := NewClient(runner, nil)

	stats, err := client.DiffStats(context.Background(), Options{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, []FileDiffStats{
		{Path: "a.go", Insertions: 1, Deletions: 2},
		{Path: "new.go", Insertions: 3},
	}, stats)
}

func TestClient_DiffStatsStagedOnlySkipsUntracked(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"diff --cached --numstat": ok("1\t0\ta.go"),
	})
	client := NewClient(runner, nil)

	stats, err := client.DiffStats(context.Background(), Options{})

	require.NoError(t, err)
	assert.Equal(t, []FileDiffStats{{Path: "a.go", Insertions: 1}}, stats)
	assert.False(t, runner.called("ls-files --others --exclude-standard -z"))
}

func TestClient_ChangedFilesKeepsUnusualNamesVerbatim(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"diff --cached --name-only -z":            ok("caf\u00e9.go\x00my file.txt\x00"),
		"diff --name-only -z":                     ok("tab\there.go\x00"),
		"ls-files --others --exclude-standard -z": ok("line\nbreak.md\x00"),
	})
	client := NewClient(runner, nil)
	ctx := context.Background()

	staged, err := client.ChangedFiles(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"café.go", "my file.txt"}, staged)

	all, err := client.ChangedFiles(ctx, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"café.go", "my file.txt", "tab\there.go", "line\nbreak.md"}, all)
}

func TestClient_CommitHistory(t *testing.T) {
	runner := newFakeRunner(map[string]Result{
		"log -3 --pretty=format:%s --no-merges": ok("feat: a\nfix: b\n\nchore: c"),
	})
	client := NewClient(runner, nil)

	assert.Equal(t, []string{"feat: a", "fix: b", "chore: c"}, client.CommitHistory(context.Background(), 3))
}
