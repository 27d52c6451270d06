package runner

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Executor runs a job command, writing combined output to out.
type Executor interface {
	Execute(ctx context.Context, command string, out io.Writer) (exitCode int, err error)
}

// ShellExecutor runs commands with `<Shell> -c <command>`.
type ShellExecutor struct {
	Shell string
}

// Execute returns the process exit code. A non-zero exit is not an error;
// err is set only when the command could not run or ctx ended it.
func (e ShellExecutor) Execute(ctx context.Context, command string, out io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, e.Shell, "-c", command)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
