package ruleset

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Command is a single invocation of the external program.
type Command struct {
	Path string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Result is the outcome of a command that ran to completion.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs commands synchronously. An error means the command could not
// be run at all; a non-zero exit status is reported through Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec and captures their output.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, err
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}
