package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRestartCmd(ctx *context) *cobra.Command {
	var opts launchOptions
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Stop every sing-box process and start it again",
		Long: "Stop every sing-box process and start it again.\n\n" +
			"Options are checked before anything is stopped. The start is attempted\n" +
			"even when stopping failed; both failures are reported.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.spec(ctx)
			if err != nil {
				return err
			}

			result := ctx.supervisor().Restart(cmd.Context(), spec)
			if result.NotRunning {
				ctx.logger.InfoContext(cmd.Context(), "nothing to stop before restart", "pattern", stopPattern)
			}
			switch {
			case result.Err() == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s successfully restarted\n", programName)
			case result.StartErr == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s successfully started\n", programName)
			}
			return result.Err()
		},
	}
	opts.bind(cmd)
	ctx.bindMetricsFlag(cmd)
	return cmd
}
