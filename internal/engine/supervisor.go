package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Paintersrp/singer/internal/metrics"
	"github.com/Paintersrp/singer/internal/runtime"
)

// RestartResult carries both halves of a restart. A stop that found nothing
// running leaves StopErr nil and sets NotRunning.
type RestartResult struct {
	NotRunning bool
	StopErr    error
	StartErr   error
}

// Err joins the stop and start failures.
func (r RestartResult) Err() error {
	return errors.Join(r.StopErr, r.StartErr)
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supervisor) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Supervisor starts and stops the single detached program instance. It does
// not watch the program after launch.
type Supervisor struct {
	launcher   runtime.Launcher
	terminator runtime.Terminator
	pattern    string
	logger     *slog.Logger
}

// NewSupervisor returns a supervisor that launches with launcher and stops
// every process whose image name matches pattern.
func NewSupervisor(launcher runtime.Launcher, terminator runtime.Terminator, pattern string, opts ...Option) *Supervisor {
	sup := &Supervisor{
		launcher:   launcher,
		terminator: terminator,
		pattern:    pattern,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sup)
		}
	}
	return sup
}

// Start launches spec detached and returns once the launch was handed off.
func (s *Supervisor) Start(ctx context.Context, spec runtime.Spec) error {
	s.logger.DebugContext(ctx, "launching program", "program", spec.Program, "args", spec.Args)
	err := s.launcher.Launch(ctx, spec)
	metrics.RecordLaunch(err)
	if err != nil {
		s.logger.InfoContext(ctx, "launch failed", "program", spec.Program, "error", err)
		return err
	}
	return nil
}

// Stop force-kills every matching process. runtime.ErrNoProcess is returned
// when nothing matched.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.logger.DebugContext(ctx, "terminating processes", "pattern", s.pattern)
	err := s.terminator.Terminate(ctx, s.pattern)
	noMatch := errors.Is(err, runtime.ErrNoProcess)
	metrics.RecordTermination(err, noMatch)
	if err != nil && !noMatch {
		s.logger.InfoContext(ctx, "termination failed", "pattern", s.pattern, "error", err)
	}
	return err
}

// Restart stops the running instances and launches spec. The launch is
// attempted whatever the stop outcome.
func (s *Supervisor) Restart(ctx context.Context, spec runtime.Spec) RestartResult {
	var result RestartResult
	if err := s.Stop(ctx); err != nil {
		if errors.Is(err, runtime.ErrNoProcess) {
			result.NotRunning = true
		} else {
			result.StopErr = err
		}
	}
	result.StartErr = s.Start(ctx, spec)
	return result
}
