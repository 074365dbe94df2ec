package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/code_analyzer"
	"github.com/maty-millien/pushit/config"
	"github.com/maty-millien/pushit/constants/lipgloss"
	"github.com/maty-millien/pushit/git"
	"github.com/maty-millien/pushit/logging"
	"github.com/maty-millien/pushit/providers/contracts"
	"github.com/maty-millien/pushit/providers/openrouter"
	"github.com/maty-millien/pushit/snapshot"
	"github.com/maty-millien/pushit/token_management"
	contracts2 "github.com/maty-millien/pushit/token_management/contracts"
	"github.com/maty-millien/pushit/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootDependencies holds everything a pushit run needs, built once per command.
type RootDependencies struct {
	Config              *config.Config
	Cwd                 string
	Logger              *zap.Logger
	Git                 *git.Client
	Aggregator          *snapshot.Aggregator
	TokenManagement     contracts2.ITokenManagement
	CurrentChatProvider contracts.IChatAIProvider
	Generator           *utils.CommitMessageGenerator
}

var rootCmd = &cobra.Command{
	Use:   "pushit",
	Short: "Generate a conventional commit message for your changes with AI, then commit and push.",
	Long: `pushit stages every change in the current repository, sends a snapshot of the diff,
status, branch and recent history to an OpenRouter model and turns the streamed reply into
a single conventional commit line. You can then commit (and push), regenerate, edit the
message, inspect the diff or cancel, in which case the changes are unstaged again.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies, err := handleRootCommand(cmd, true)
		if err != nil {
			exitWithError(err)
		}

		code := handlePushitCommand(rootDependencies)
		_ = rootDependencies.Logger.Sync()
		os.Exit(code)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads the configuration and wires the components.
// requireKey is false for commands that never call the generation endpoint.
func handleRootCommand(cmd *cobra.Command, requireKey bool) (*RootDependencies, error) {
	cfg, err := config.LoadConfigs(cmd, config.DefaultConfigDir())
	if err != nil {
		return nil, err
	}
	if requireKey {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve the working directory")
	}
	root, err := git.FindRoot(cwd)
	if err != nil {
		return nil, err
	}

	gitClient := git.NewClient(git.NewExecRunner(root, logger), logger)
	fsys := afero.NewBasePathFs(afero.NewOsFs(), root)

	tokenManagement := token_management.NewTokenManager()
	provider := openrouter.NewOpenRouterChatProvider(&openrouter.OpenRouterConfig{
		BaseURL:         cfg.ApiUrl,
		ApiKey:          cfg.ApiKey,
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
		ProviderSort:    cfg.ProviderSort,
		TokenManagement: tokenManagement,
		Logger:          logger,
	})

	logger.Debug("pushit started",
		zap.String("root", root),
		zap.String("model", cfg.Model),
		zap.Bool("dry_run", cfg.DryRun),
	)

	return &RootDependencies{
		Config:              cfg,
		Cwd:                 root,
		Logger:              logger,
		Git:                 gitClient,
		Aggregator:          snapshot.NewAggregator(gitClient, fsys, cfg.Limits(), code_analyzer.NewCodeAnalyzer(logger), logger),
		TokenManagement:     tokenManagement,
		CurrentChatProvider: provider,
		Generator:           utils.NewCommitMessageGenerator(provider, cfg.Timeout, logger),
	}, nil
}

func exitWithError(err error) {
	if errors.Is(err, git.ErrNotRepository) {
		fmt.Println(lipgloss.Red.Render("Not a git repository"))
	} else {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
	}
	os.Exit(1)
}

func newSpinner() *pterm.SpinnerPrinter {
	return pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true)
}
