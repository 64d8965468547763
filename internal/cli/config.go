package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
		Long: "Show or change persisted settings.\n\n" +
			"Settings supply defaults for --bin, --wdir and --cdir when the flag\n" +
			"is not given. Keys: bin, wdir, cdir.",
	}
	cmd.AddCommand(newConfigListCmd(ctx))
	cmd.AddCommand(newConfigSetCmd(ctx))
	cmd.AddCommand(newConfigPathCmd(ctx))
	return cmd
}

func newConfigListCmd(ctx *context) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.settings()
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "", "text":
				fmt.Fprintln(out, settings.String())
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(settings); err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(settings); err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
			default:
				return fmt.Errorf("unsupported output format %q (expected text, yaml or json)", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, yaml or json")
	return cmd
}

func newConfigSetCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Persist one setting",
		Example: "  singer config set wdir /srv/rules",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.settings()
			if err != nil {
				return err
			}
			if err := store.Set(args[0], args[1]); err != nil {
				return err
			}
			ctx.logger.DebugContext(cmd.Context(), "setting saved", "key", args[0], "path", store.Path())
			return nil
		},
	}
}

func newConfigPathCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.settings()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			return nil
		},
	}
}
