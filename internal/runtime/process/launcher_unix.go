//go:build !windows

package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/Paintersrp/singer/internal/runtime"
)

type doubleForkLauncher struct {
	opts options
}

// NewLauncher returns the double-fork launcher. Unless WithTrampoline is
// given, the intermediate is the running executable invoked with
// SpawnCommand.
func NewLauncher(opts ...Option) runtime.Launcher {
	return &doubleForkLauncher{opts: newOptions(opts)}
}

func (l *doubleForkLauncher) Launch(ctx context.Context, spec runtime.Spec) error {
	trampoline, err := l.trampoline()
	if err != nil {
		return &runtime.LaunchError{Program: spec.Program, Err: err}
	}

	args := make([]string, 0, len(trampoline)+len(spec.Args))
	args = append(args, trampoline[1:]...)
	args = append(args, spec.Program)
	args = append(args, spec.Args...)

	// First fork: the intermediate lives in its own session, starts the
	// target and exits. Waiting on it here reaps it.
	cmd := exec.CommandContext(ctx, trampoline[0], args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	l.opts.logger.DebugContext(ctx, "starting intermediate process",
		"trampoline", trampoline[0],
		"program", spec.Program,
		"args", spec.Args,
	)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				err = errors.New(msg)
			}
		}
		return &runtime.LaunchError{Program: spec.Program, Err: err}
	}
	l.opts.logger.DebugContext(ctx, "intermediate process exited", "program", spec.Program)
	return nil
}

func (l *doubleForkLauncher) trampoline() ([]string, error) {
	if len(l.opts.trampoline) > 0 {
		return l.opts.trampoline, nil
	}
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve own executable: %w", err)
	}
	return []string{self, SpawnCommand, "--"}, nil
}
