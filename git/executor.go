package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Result is the captured outcome of a single git invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Success  bool
}

// Runner executes git with the given arguments.
type Runner interface {
	Run(ctx context.Context, args ...string) Result
}

// ExecRunner runs the git binary as a subprocess in Dir.
type ExecRunner struct {
	Binary string
	Dir    string
	Logger *zap.Logger
}

// NewExecRunner creates a runner for the git binary found on PATH.
func NewExecRunner(dir string, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{Binary: "git", Dir: dir, Logger: logger}
}

// Run spawns git, waits for it and returns both streams with trailing whitespace removed.
func (r *ExecRunner) Run(ctx context.Context, args ...string) Result {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitCode = -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if stderr.Len() == 0 {
			// git never started; surface the spawn error in place of stderr
			stderr.WriteString(err.Error())
		}
	}

	result := Result{
		Stdout:   strings.TrimRight(stdout.String(), " \t\r\n"),
		Stderr:   strings.TrimRight(stderr.String(), " \t\r\n"),
		ExitCode: exitCode,
		Success:  exitCode == 0,
	}

	r.Logger.Debug("git",
		zap.Strings("args", args),
		zap.Int("exit_code", exitCode),
		zap.Int("stdout_bytes", len(result.Stdout)),
	)

	return result
}
