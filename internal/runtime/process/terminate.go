package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/Paintersrp/singer/internal/runtime"
)

type terminator struct {
	opts options
}

// NewTerminator returns a Terminator backed by the platform's bulk-kill tool.
func NewTerminator(opts ...Option) runtime.Terminator {
	return &terminator{opts: newOptions(opts)}
}

func (t *terminator) Terminate(ctx context.Context, pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return &runtime.TerminateError{Pattern: pattern, Err: errors.New("empty name pattern")}
	}

	name, args := killCommand(pattern)
	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	t.opts.logger.DebugContext(ctx, "terminating processes", "pattern", pattern, "tool", name, "args", args)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == noMatchExitCode {
		t.opts.logger.DebugContext(ctx, "no process matched", "pattern", pattern)
		return runtime.ErrNoProcess
	}
	return &runtime.TerminateError{Pattern: pattern, Output: output.String(), Err: err}
}
