package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/singer/internal/runtime"
)

func newStopCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Force-kill every running sing-box process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ctx.supervisor().Stop(cmd.Context())
			if errors.Is(err, runtime.ErrNoProcess) {
				return fmt.Errorf("%s is not running", programName)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s successfully stopped\n", programName)
			return nil
		},
	}
	ctx.bindMetricsFlag(cmd)
	return cmd
}
