package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoProcess reports that a termination request matched no running process.
var ErrNoProcess = errors.New("no matching process")

// Spec describes a single launch of an external program. It is built right
// before a launch and not retained afterwards.
type Spec struct {
	Program string
	Args    []string
}

// Launcher starts programs that outlive the invoking process.
type Launcher interface {
	// Launch starts the program described by spec and returns without
	// waiting for it. Implementations keep no handle to the started
	// process once Launch returns.
	Launch(ctx context.Context, spec Spec) error
}

// Terminator forcibly stops processes by image name.
type Terminator interface {
	// Terminate kills every process whose image name matches the
	// case-insensitive glob pattern. It returns ErrNoProcess when nothing
	// matched.
	Terminate(ctx context.Context, pattern string) error
}

// LaunchError carries the OS-level reason a launch failed.
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// TerminateError carries the diagnostic output of a failed bulk kill.
type TerminateError struct {
	Pattern string
	Output  string
	Err     error
}

func (e *TerminateError) Error() string {
	output := strings.TrimSpace(e.Output)
	if output == "" {
		return fmt.Sprintf("terminate %s: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("terminate %s: %s", e.Pattern, output)
}

func (e *TerminateError) Unwrap() error {
	return e.Err
}
