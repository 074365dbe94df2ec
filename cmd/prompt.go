package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/maty-millien/pushit/embed_data"
	"github.com/maty-millien/pushit/git"
	"github.com/maty-millien/pushit/snapshot"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent to the model.",
	Long: `The 'prompt' command builds the same snapshot as the interactive flow and prints the
rendered prompt without calling the model. Nothing is staged: without --dry-run only the
staged changes are described, with --dry-run staged, unstaged and untracked changes are.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd, false)
		if err != nil {
			return err
		}
		defer func() { _ = rootDependencies.Logger.Sync() }()

		return handlePromptCommand(cmd.Context(), rootDependencies.Aggregator, rootDependencies.Config.MaxPromptChars, git.Options{DryRun: rootDependencies.Config.DryRun}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func handlePromptCommand(ctx context.Context, aggregator *snapshot.Aggregator, maxPromptChars int, opts git.Options, out io.Writer) error {
	snap, err := aggregator.Build(ctx, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, snapshot.RenderPrompt(snap, string(embed_data.CommitPrompt), maxPromptChars))
	return err
}
