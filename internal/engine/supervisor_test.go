package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/singer/internal/runtime"
)

type fakeLauncher struct {
	err   error
	specs []runtime.Spec
	order *[]string
}

func (f *fakeLauncher) Launch(ctx context.Context, spec runtime.Spec) error {
	f.specs = append(f.specs, spec)
	if f.order != nil {
		*f.order = append(*f.order, "launch")
	}
	return f.err
}

type fakeTerminator struct {
	err      error
	patterns []string
	order    *[]string
}

func (f *fakeTerminator) Terminate(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	if f.order != nil {
		*f.order = append(*f.order, "terminate")
	}
	return f.err
}

var testSpec = runtime.Spec{
	Program: "/opt/sing-box",
	Args:    []string{"run", "-C", "/etc/sing-box", "-D", "/etc/sing-box"},
}

func TestSupervisorStartAndStop(t *testing.T) {
	launcher := &fakeLauncher{}
	terminator := &fakeTerminator{}
	sup := NewSupervisor(launcher, terminator, "sing-box*")

	require.NoError(t, sup.Start(t.Context(), testSpec))
	require.Equal(t, []runtime.Spec{testSpec}, launcher.specs)

	require.NoError(t, sup.Stop(t.Context()))
	require.Equal(t, []string{"sing-box*"}, terminator.patterns)
}

func TestSupervisorStopReportsNoProcess(t *testing.T) {
	sup := NewSupervisor(&fakeLauncher{}, &fakeTerminator{err: runtime.ErrNoProcess}, "sing-box*")
	require.ErrorIs(t, sup.Stop(t.Context()), runtime.ErrNoProcess)
}

func TestSupervisorRestartOrdersStopBeforeStart(t *testing.T) {
	var order []string
	sup := NewSupervisor(&fakeLauncher{order: &order}, &fakeTerminator{order: &order}, "sing-box*")

	result := sup.Restart(t.Context(), testSpec)
	require.NoError(t, result.Err())
	require.False(t, result.NotRunning)
	require.Equal(t, []string{"terminate", "launch"}, order)
}

func TestSupervisorRestartWhenNothingRuns(t *testing.T) {
	launcher := &fakeLauncher{}
	sup := NewSupervisor(launcher, &fakeTerminator{err: runtime.ErrNoProcess}, "sing-box*")

	result := sup.Restart(t.Context(), testSpec)
	require.NoError(t, result.Err())
	require.True(t, result.NotRunning)
	require.Len(t, launcher.specs, 1)
}

func TestSupervisorRestartLaunchesAfterStopFailure(t *testing.T) {
	stopErr := &runtime.TerminateError{Pattern: "sing-box*", Output: "access denied", Err: errors.New("exit status 1")}
	launcher := &fakeLauncher{}
	sup := NewSupervisor(launcher, &fakeTerminator{err: stopErr}, "sing-box*")

	result := sup.Restart(t.Context(), testSpec)
	require.ErrorIs(t, result.StopErr, stopErr)
	require.NoError(t, result.StartErr)
	require.Len(t, launcher.specs, 1)
	require.ErrorIs(t, result.Err(), stopErr)
}

func TestSupervisorRestartReportsBothFailures(t *testing.T) {
	stopErr := errors.New("kill failed")
	launchErr := &runtime.LaunchError{Program: "/opt/sing-box", Err: errors.New("permission denied")}
	sup := NewSupervisor(&fakeLauncher{err: launchErr}, &fakeTerminator{err: stopErr}, "sing-box*")

	result := sup.Restart(t.Context(), testSpec)
	err := result.Err()
	require.ErrorIs(t, err, stopErr)
	var target *runtime.LaunchError
	require.ErrorAs(t, err, &target)
}
