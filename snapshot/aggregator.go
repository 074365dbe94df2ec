package snapshot

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/git"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repository is the read side of git.Client used to build a snapshot.
type Repository interface {
	Branch(ctx context.Context) string
	ChangedFiles(ctx context.Context, opts git.Options) ([]string, error)
	Status(ctx context.Context) (string, error)
	StagedDiff(ctx context.Context, opts git.Options) (string, error)
	DiffStats(ctx context.Context, opts git.Options) ([]git.FileDiffStats, error)
	CommitHistory(ctx context.Context, count int) []string
}

// Outliner lists the top-level declarations of a source file.
type Outliner interface {
	Outline(path string, source []byte) []string
}

// Aggregator builds a Snapshot from a repository and its work tree.
type Aggregator struct {
	repo     Repository
	fs       afero.Fs
	outliner Outliner
	limits   Limits
	logger   *zap.Logger
}

// NewAggregator returns an Aggregator reading files from fsys, which must be
// rooted at the work-tree root. outliner may be nil.
func NewAggregator(repo Repository, fsys afero.Fs, limits Limits, outliner Outliner, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{repo: repo, fs: fsys, outliner: outliner, limits: limits, logger: logger}
}

// Build runs the snapshot queries concurrently and assembles the result.
func (a *Aggregator) Build(ctx context.Context, opts git.Options) (*Snapshot, error) {
	start := time.Now()
	snap := &Snapshot{}
	var rawDiff string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Branch = a.repo.Branch(gctx)
		return nil
	})
	g.Go(func() (err error) {
		snap.ChangedFiles, err = a.repo.ChangedFiles(gctx, opts)
		return errors.Wrap(err, "listing changed files")
	})
	g.Go(func() (err error) {
		snap.Status, err = a.repo.Status(gctx)
		return errors.Wrap(err, "reading status")
	})
	g.Go(func() (err error) {
		rawDiff, err = a.repo.StagedDiff(gctx, opts)
		return errors.Wrap(err, "reading diff")
	})
	g.Go(func() (err error) {
		snap.DiffStats, err = a.repo.DiffStats(gctx, opts)
		return errors.Wrap(err, "reading diff stats")
	})
	g.Go(func() error {
		snap.CommitHistory = a.repo.CommitHistory(gctx, a.limits.HistoryCount)
		return nil
	})
	g.Go(func() error {
		snap.Project = DetectProject(gctx, a.fs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.LinkedIssue = ExtractIssueFromBranch(snap.Branch)
	snap.Files = git.ParseStatus(snap.Status)
	snap.Diff = TruncateDiff(rawDiff, a.limits.MaxDiffChars)
	snap.DiffTruncated = len(snap.Diff) != len(rawDiff)

	if a.limits.IncludeFileContents {
		snap.FileContents = ReadFileContents(ctx, a.fs, snap.ChangedFiles, a.limits)
		snap.Outlines = a.outline(snap.FileContents)
	}

	a.logger.Debug("snapshot built",
		zap.String("branch", snap.Branch),
		zap.Int("changed_files", len(snap.ChangedFiles)),
		zap.Int("diff_bytes", len(rawDiff)),
		zap.Bool("diff_truncated", snap.DiffTruncated),
		zap.String("project", string(snap.Project.Kind)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return snap, nil
}

func (a *Aggregator) outline(contents map[string]string) map[string][]string {
	if a.outliner == nil {
		return nil
	}
	outlines := make(map[string][]string, len(contents))
	for path, content := range contents {
		if decls := a.outliner.Outline(path, []byte(content)); len(decls) > 0 {
			outlines[path] = decls
		}
	}
	return outlines
}
