package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/singer/internal/config"
	"github.com/Paintersrp/singer/internal/runtime"
)

// launchOptions are the flags shared by start and restart.
type launchOptions struct {
	bin  string
	cdir string
}

func (o *launchOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.bin, "bin", "b", "", "Path to the sing-box program")
	cmd.Flags().StringVarP(&o.cdir, "cdir", "c", "", "sing-box config directory")
}

// spec resolves the flags against the persisted settings and builds the
// launch request.
func (o *launchOptions) spec(ctx *context) (runtime.Spec, error) {
	resolver, err := ctx.resolver()
	if err != nil {
		return runtime.Spec{}, err
	}
	program, err := resolver.Resolve(config.ProgramOption, o.bin)
	if err != nil {
		return runtime.Spec{}, err
	}
	configDir, err := resolver.Resolve(config.ConfigDirOption, o.cdir)
	if err != nil {
		return runtime.Spec{}, err
	}
	return runtime.Spec{
		Program: program,
		Args:    []string{"run", "-C", configDir, "-D", configDir},
	}, nil
}

func newStartCmd(ctx *context) *cobra.Command {
	var opts launchOptions
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start sing-box detached from this terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.spec(ctx)
			if err != nil {
				return err
			}
			if err := ctx.supervisor().Start(cmd.Context(), spec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s successfully started\n", programName)
			return nil
		},
	}
	opts.bind(cmd)
	ctx.bindMetricsFlag(cmd)
	return cmd
}
