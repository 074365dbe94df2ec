package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/config"
	"github.com/maty-millien/pushit/constants/lipgloss"
	"github.com/maty-millien/pushit/embed_data"
	"github.com/maty-millien/pushit/git"
	"github.com/maty-millien/pushit/snapshot"
	contracts2 "github.com/maty-millien/pushit/token_management/contracts"
	"github.com/maty-millien/pushit/utils"
	"go.uber.org/zap"
)

// VCS is the part of the git client driven by the interactive flow.
type VCS interface {
	IsRepo(ctx context.Context) bool
	HasChanges(ctx context.Context) (bool, error)
	HasRemote(ctx context.Context) bool
	StageAll(ctx context.Context, opts git.Options) git.CommandResult
	Unstage(ctx context.Context, opts git.Options) git.CommandResult
	Commit(ctx context.Context, message string, opts git.Options) git.CommandResult
	Push(ctx context.Context, opts git.Options) git.CommandResult
}

// SnapshotBuilder assembles the change-set snapshot.
type SnapshotBuilder interface {
	Build(ctx context.Context, opts git.Options) (*snapshot.Snapshot, error)
}

// MessageGenerator turns a rendered prompt into a commit message.
type MessageGenerator interface {
	GenerateCommitMessage(ctx context.Context, prompt string) (utils.GenerationResult, error)
}

// commitSession is one run of the interactive flow.
type commitSession struct {
	config       *config.Config
	vcs          VCS
	snapshots    SnapshotBuilder
	generator    MessageGenerator
	tokens       contracts2.ITokenManagement
	selectAction func(hasRemote bool) (utils.Action, error)
	readLine     func(ctx context.Context, label string) (string, error)
	out          io.Writer
	logger       *zap.Logger

	staged      atomic.Bool
	unstageOnce sync.Once
}

func newCommitSession(rootDependencies *RootDependencies) *commitSession {
	reader := bufio.NewReader(os.Stdin)
	return &commitSession{
		config:       rootDependencies.Config,
		vcs:          rootDependencies.Git,
		snapshots:    rootDependencies.Aggregator,
		generator:    rootDependencies.Generator,
		tokens:       rootDependencies.TokenManagement,
		selectAction: utils.SelectAction,
		readLine: func(ctx context.Context, label string) (string, error) {
			return utils.InputPromptWithContext(ctx, reader, label)
		},
		out:    os.Stdout,
		logger: rootDependencies.Logger,
	}
}

// handlePushitCommand runs the interactive flow and returns the exit code.
func handlePushitCommand(rootDependencies *RootDependencies) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session := newCommitSession(rootDependencies)

	done := make(chan struct{})
	defer close(done)
	go func() {
		if utils.GracefulShutdown(ctx, done, session.unstage) {
			_ = session.logger.Sync()
			os.Exit(130)
		}
	}()

	return session.run(ctx)
}

// unstage restores the index once, and only after this run staged it. The
// session context may already be canceled when it runs.
func (s *commitSession) unstage() {
	s.unstageOnce.Do(func() {
		if !s.staged.Load() {
			return
		}
		opts := git.Options{DryRun: s.config.DryRun}
		if res := s.vcs.Unstage(context.Background(), opts); !res.Success {
			s.logger.Warn("failed to unstage changes", zap.String("error", res.Error))
		}
	})
}

// renderer is satisfied by every style in constants/lipgloss.
type renderer interface {
	Render(strs ...string) string
}

func (s *commitSession) println(style renderer, format string, args ...any) {
	fmt.Fprintln(s.out, style.Render(fmt.Sprintf(format, args...)))
}

func (s *commitSession) run(ctx context.Context) int {
	cfg := s.config
	opts := git.Options{DryRun: cfg.DryRun}

	if !s.vcs.IsRepo(ctx) {
		s.println(lipgloss.Red, "Not a git repository")
		return 1
	}

	hasChanges, err := s.vcs.HasChanges(ctx)
	if err != nil {
		s.println(lipgloss.Red, "%v", err)
		return 1
	}
	if !hasChanges {
		s.println(lipgloss.Info, "No changes to commit")
		return 0
	}

	if cfg.DryRun {
		s.println(lipgloss.Yellow, "Dry run: nothing will be staged, committed or pushed")
	}

	spinnerStage, _ := newSpinner().Start("Staging changes...")
	res := s.vcs.StageAll(ctx, opts)
	_ = spinnerStage.Stop()
	if !res.Success {
		s.println(lipgloss.Red, "Failed to stage changes: %s", res.Error)
		return 1
	}
	s.staged.Store(true)
	if !cfg.DryRun {
		s.println(lipgloss.Green, "✔ Changes staged")
	}

	spinnerContext, _ := newSpinner().Start("Analyzing changes...")
	snap, err := s.snapshots.Build(ctx, opts)
	_ = spinnerContext.Stop()
	if err != nil {
		s.println(lipgloss.Red, "Failed to analyze changes: %v", err)
		s.unstage()
		return 1
	}
	s.println(lipgloss.Green, "✔ Analysis complete")
	if snap.DiffTruncated {
		s.println(lipgloss.Yellow, "Diff is larger than %d characters, some files were left out of the prompt", cfg.MaxDiffChars)
	}

	prompt := snapshot.RenderPrompt(snap, string(embed_data.CommitPrompt), cfg.MaxPromptChars)
	hasRemote := s.vcs.HasRemote(ctx)

	for {
		spinnerAI, _ := newSpinner().Start("Generating commit message...")
		result, err := s.generator.GenerateCommitMessage(ctx, prompt)
		_ = spinnerAI.Stop()
		if err != nil {
			if ctx.Err() != nil {
				waitForShutdown()
			}
			s.println(lipgloss.Red, "Failed to generate message: %v", err)
			s.logger.Error("generation failed", zap.Error(err))
			s.unstage()
			return 1
		}

		if result.Repeated {
			s.println(lipgloss.Gray, "The model returned a message it already suggested")
		}
		message := result.Message

	menu:
		for {
			s.displayCommitMessage(message)
			s.tokens.DisplayTokens(cfg.Model)

			action, err := s.selectAction(hasRemote)
			if err != nil {
				s.logger.Warn("action menu aborted", zap.Error(err))
			}

			switch action {
			case utils.ActionRegenerate:
				break menu

			case utils.ActionEdit:
				edited, err := s.readLine(ctx, "Commit message")
				if err != nil {
					if errors.Is(err, context.Canceled) {
						waitForShutdown()
					}
					s.println(lipgloss.Red, "%v", err)
					continue
				}
				if edited != "" {
					message = edited
				}

			case utils.ActionShowDiff:
				if err := utils.RenderDiff(s.out, snap.Diff, cfg.Theme); err != nil {
					s.println(lipgloss.Red, "%v", err)
				}

			case utils.ActionCommit, utils.ActionCommitPush:
				return s.commitAndPush(ctx, message, action == utils.ActionCommitPush, opts)

			default:
				s.unstage()
				s.println(lipgloss.Yellow, "Commit cancelled")
				return 0
			}
		}
	}
}

func (s *commitSession) commitAndPush(ctx context.Context, message string, push bool, opts git.Options) int {
	res := s.vcs.Commit(ctx, message, opts)
	if !res.Success {
		s.println(lipgloss.Red, "Failed to commit: %s", res.Error)
		return 1
	}
	s.println(lipgloss.Green, "✔ Commit created successfully!")
	s.logger.Info("commit created", zap.String("message", message), zap.Bool("dry_run", opts.DryRun))

	if push {
		spinnerPush, _ := newSpinner().Start("Pushing to remote...")
		res = s.vcs.Push(ctx, opts)
		_ = spinnerPush.Stop()
		if res.Success {
			s.println(lipgloss.Green, "✔ Changes pushed successfully!")
		} else {
			s.println(lipgloss.Yellow, "Failed to push (remote may not be configured)")
			s.logger.Warn("push failed", zap.String("error", res.Error))
		}
	}

	s.println(lipgloss.Info, "Done!")
	return 0
}

// waitForShutdown parks the caller while the shutdown goroutine restores the
// index and exits the process.
func waitForShutdown() {
	select {}
}

func (s *commitSession) displayCommitMessage(message string) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, lipgloss.MessageBox.Render(lipgloss.Message.Render(message)))
	fmt.Fprintln(s.out)
}
