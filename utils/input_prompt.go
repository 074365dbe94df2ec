package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/constants/lipgloss"
	"github.com/pterm/pterm"
)

// Action is a choice offered after a message has been generated.
type Action string

const (
	ActionCommit     Action = "Commit"
	ActionCommitPush Action = "Commit and push"
	ActionRegenerate Action = "Regenerate"
	ActionEdit       Action = "Edit message"
	ActionShowDiff   Action = "Show diff"
	ActionCancel     Action = "Cancel"
)

// ActionOptions lists the choices in menu order. Pushing is only offered
// when a remote is configured.
func ActionOptions(hasRemote bool) []Action {
	first := ActionCommit
	if hasRemote {
		first = ActionCommitPush
	}
	return []Action{first, ActionRegenerate, ActionEdit, ActionShowDiff, ActionCancel}
}

// SelectAction shows the action menu. An aborted menu counts as ActionCancel.
func SelectAction(hasRemote bool) (Action, error) {
	actions := ActionOptions(hasRemote)
	options := make([]string, len(actions))
	for i, a := range actions {
		options[i] = string(a)
	}

	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText("What would you like to do?").
		Show()
	if err != nil {
		return ActionCancel, err
	}
	return Action(selected), nil
}

// InputPromptWithContext prompts the user with context cancellation support
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader, label string) (string, error) {
	// Create channels for input and errors
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render(label + "> "))

		userInput, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			errChan <- errors.Wrap(err, "error reading input")
			return
		}
		inputChan <- strings.TrimSpace(userInput)
	}()

	// Wait for either input or context cancellation
	select {
	case <-ctx.Done():
		fmt.Println() // Print newline for clean exit
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}
