package git

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options carries the execution mode into every repository-facing call.
type Options struct {
	// DryRun turns mutations into successful no-ops and widens read queries to
	// staged, unstaged and untracked content.
	DryRun bool
}

// CommandResult is the outcome of a mutating git operation.
type CommandResult struct {
	Success bool
	Error   string
}

// Client issues git commands through a Runner.
type Client struct {
	runner Runner
	logger *zap.Logger
}

// NewClient creates a Client backed by runner.
func NewClient(runner Runner, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{runner: runner, logger: logger}
}

func (c *Client) run(ctx context.Context, args ...string) Result {
	return c.runner.Run(ctx, args...)
}

// output runs a read-only query and fails with a CommandError on non-zero exit.
func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	res := c.run(ctx, args...)
	if !res.Success {
		return "", commandError(args, res)
	}
	return res.Stdout, nil
}

// IsRepo reports whether the working directory is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	res := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	return res.Success && res.Stdout == "true"
}

// HasChanges reports whether there is anything staged, modified or untracked.
func (c *Client) HasChanges(ctx context.Context) (bool, error) {
	var staged, unstaged, untracked Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		staged = c.run(gctx, "diff", "--cached", "--quiet")
		return quietError([]string{"diff", "--cached", "--quiet"}, staged)
	})
	g.Go(func() error {
		unstaged = c.run(gctx, "diff", "--quiet")
		return quietError([]string{"diff", "--quiet"}, unstaged)
	})
	g.Go(func() error {
		untracked = c.run(gctx, "ls-files", "--others", "--exclude-standard")
		if !untracked.Success {
			return commandError([]string{"ls-files", "--others", "--exclude-standard"}, untracked)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	return !staged.Success || !unstaged.Success || untracked.Stdout != "", nil
}

// quietError accepts the exit codes of "git diff --quiet": 0 no changes, 1 changes.
func quietError(args []string, res Result) error {
	if res.Success || res.ExitCode == 1 {
		return nil
	}
	return commandError(args, res)
}

// HasRemote reports whether any remote is configured.
func (c *Client) HasRemote(ctx context.Context) bool {
	return c.run(ctx, "remote").Stdout != ""
}

// Branch returns the current branch name, or "main" when detached or unborn.
func (c *Client) Branch(ctx context.Context) string {
	res := c.run(ctx, "branch", "--show-current")
	if !res.Success || res.Stdout == "" {
		return "main"
	}
	return res.Stdout
}

// Status returns the short-format status.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.output(ctx, "status", "--short")
}

// CommitHistory returns up to count recent non-merge commit subjects, newest first.
func (c *Client) CommitHistory(ctx context.Context, count int) []string {
	res := c.run(ctx, "log", fmt.Sprintf("-%d", count), "--pretty=format:%s", "--no-merges")
	if !res.Success {
		// an unborn branch has no log
		return nil
	}
	return splitLines(res.Stdout)
}

// StagedDiff returns the diff that would be committed.
func (c *Client) StagedDiff(ctx context.Context, opts Options) (string, error) {
	if !opts.DryRun {
		return c.output(ctx, "diff", "--cached")
	}

	var staged, unstaged string
	var untracked []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		staged, err = c.output(gctx, "diff", "--cached")
		return err
	})
	g.Go(func() (err error) {
		unstaged, err = c.output(gctx, "diff")
		return err
	})
	g.Go(func() (err error) {
		untracked, err = c.untrackedDiffs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	parts := append([]string{staged, unstaged}, untracked...)
	return joinNonEmpty(parts), nil
}

// untrackedDiffs renders each untracked file as a diff against /dev/null.
func (c *Client) untrackedDiffs(ctx context.Context, extra ...string) ([]string, error) {
	files, err := c.untrackedFiles(ctx)
	if err != nil {
		return nil, err
	}

	diffs := make([]string, len(files))
	for i, file := range files {
		args := append([]string{"diff", "--no-index"}, extra...)
		args = append(args, "--", "/dev/null", file)
		res := c.run(ctx, args...)
		// --no-index exits 1 when the inputs differ
		if !res.Success && res.ExitCode != 1 {
			c.logger.Debug("skipping untracked file diff", zap.String("path", file), zap.String("stderr", res.Stderr))
			continue
		}
		diffs[i] = res.Stdout
	}
	return diffs, nil
}

func (c *Client) untrackedFiles(ctx context.Context) ([]string, error) {
	out, err := c.output(ctx, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, err
	}
	return splitNUL(out), nil
}

// ChangedFiles lists the paths that would be committed, without duplicates.
func (c *Client) ChangedFiles(ctx context.Context, opts Options) ([]string, error) {
	if !opts.DryRun {
		out, err := c.output(ctx, "diff", "--cached", "--name-only", "-z")
		if err != nil {
			return nil, err
		}
		return splitNUL(out), nil
	}

	var staged, unstaged string
	var untracked []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		staged, err = c.output(gctx, "diff", "--cached", "--name-only", "-z")
		return err
	})
	g.Go(func() (err error) {
		unstaged, err = c.output(gctx, "diff", "--name-only", "-z")
		return err
	})
	g.Go(func() (err error) {
		untracked, err = c.untrackedFiles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := append(splitNUL(staged), splitNUL(unstaged)...)
	return dedupe(append(all, untracked...)), nil
}

// DiffStats returns per-file insertion and deletion counts.
func (c *Client) DiffStats(ctx context.Context, opts Options) ([]FileDiffStats, error) {
	if !opts.DryRun {
		out, err := c.output(ctx, "diff", "--cached", "--numstat")
		if err != nil {
			return nil, err
		}
		return ParseDiffStats(out), nil
	}

	var staged, unstaged string
	var untracked []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		staged, err = c.output(gctx, "diff", "--cached", "--numstat")
		return err
	})
	g.Go(func() (err error) {
		unstaged, err = c.output(gctx, "diff", "--numstat")
		return err
	})
	g.Go(func() (err error) {
		untracked, err = c.untrackedDiffs(gctx, "--numstat")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parts := append([]string{staged, unstaged}, untracked...)
	return ParseDiffStats(joinNonEmpty(parts)), nil
}

// StageAll stages every change in the work tree.
func (c *Client) StageAll(ctx context.Context, opts Options) CommandResult {
	if opts.DryRun {
		return CommandResult{Success: true}
	}
	return c.mutate(ctx, "add", "-A")
}

// Unstage resets the index to HEAD, leaving the work tree untouched.
func (c *Client) Unstage(ctx context.Context, opts Options) CommandResult {
	if opts.DryRun {
		return CommandResult{Success: true}
	}
	return c.mutate(ctx, "reset")
}

// Commit records the staged changes with message.
func (c *Client) Commit(ctx context.Context, message string, opts Options) CommandResult {
	if opts.DryRun {
		return CommandResult{Success: true}
	}
	return c.mutate(ctx, "commit", "-m", message)
}

// Push pushes the current branch, setting the upstream on origin if the
// plain push fails.
func (c *Client) Push(ctx context.Context, opts Options) CommandResult {
	if opts.DryRun {
		return CommandResult{Success: true}
	}
	if res := c.mutate(ctx, "push"); res.Success {
		return res
	}

	branch := c.Branch(ctx)
	c.logger.Info("push failed, retrying with upstream", zap.String("branch", branch))
	return c.mutate(ctx, "push", "--set-upstream", "origin", branch)
}

func (c *Client) mutate(ctx context.Context, args ...string) CommandResult {
	res := c.run(ctx, args...)
	if !res.Success {
		c.logger.Warn("git command failed",
			zap.Strings("args", args),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr),
		)
		return CommandResult{Success: false, Error: res.Stderr}
	}
	return CommandResult{Success: true}
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitNUL splits the output of a -z listing. Paths come back verbatim,
// without core.quotePath escaping.
func splitNUL(s string) []string {
	var paths []string
	for _, p := range strings.Split(s, "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func joinNonEmpty(parts []string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
