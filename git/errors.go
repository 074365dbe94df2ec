package git

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNotRepository is returned when the working directory is outside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// CommandError reports a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func commandError(args []string, res Result) error {
	return &CommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
}
