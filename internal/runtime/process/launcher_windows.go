//go:build windows

package process

import (
	"context"

	"github.com/Paintersrp/singer/internal/runtime"
)

type sessionDetachLauncher struct {
	opts options
}

// NewLauncher returns the session-detach launcher. WithTrampoline has no
// effect on Windows.
func NewLauncher(opts ...Option) runtime.Launcher {
	return &sessionDetachLauncher{opts: newOptions(opts)}
}

func (l *sessionDetachLauncher) Launch(ctx context.Context, spec runtime.Spec) error {
	if err := ctx.Err(); err != nil {
		return &runtime.LaunchError{Program: spec.Program, Err: err}
	}
	l.opts.logger.DebugContext(ctx, "creating detached process",
		"program", spec.Program,
		"cmdline", commandLine(spec.Program, spec.Args),
	)
	if err := Spawn(spec.Program, spec.Args); err != nil {
		return &runtime.LaunchError{Program: spec.Program, Err: err}
	}
	return nil
}
