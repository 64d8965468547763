package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/singer/internal/runtime/process"
)

// newSpawnCmd is the intermediate step of the detached launch. It starts the
// program given after "--" and exits without waiting for it; failures go to
// stderr for the launcher to pick up.
func newSpawnCmd() *cobra.Command {
	return &cobra.Command{
		Use:                process.SpawnCommand + " -- PROGRAM [ARGS...]",
		Short:              "internal command",
		Hidden:             true,
		DisableFlagParsing: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := process.SpawnMain(args); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return &exitError{code: 1}
			}
			return nil
		},
	}
}
