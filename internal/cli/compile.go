package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/singer/internal/config"
	"github.com/Paintersrp/singer/internal/ruleset"
)

func newCompileCmd(ctx *context) *cobra.Command {
	var file, bin, wdir string
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile geosite categories to .srs rule-sets",
		Long: "Compile geosite categories to .srs rule-sets.\n\n" +
			"Categories are read from config.json in the working directory:\n" +
			"  {\"category\": [\"ads\", \"cn\"]}\n" +
			"Each category is exported from the rule database and compiled to\n" +
			"geosite-<category>.srs in the working directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}
			program, err := resolver.Resolve(config.ProgramOption, bin)
			if err != nil {
				return err
			}
			workDir, err := resolver.Resolve(config.WorkDirOption, wdir)
			if err != nil {
				return err
			}
			ruleDB, err := resolver.Resolve(config.RuleDBOption, file)
			if err != nil {
				return err
			}

			categories, skipped, err := ruleset.LoadCategories(workDir)
			if err != nil {
				return err
			}
			for _, entry := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipping invalid category %s\n", entry)
			}

			pipeline := ruleset.New(
				ruleset.WithRunner(ctx.runner),
				ruleset.WithLogger(ctx.logger),
				ruleset.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
			)
			_, err = pipeline.Run(cmd.Context(), ruleset.Request{
				Program:    program,
				RuleDB:     ruleDB,
				WorkDir:    workDir,
				Categories: categories,
			})
			if errors.Is(err, ruleset.ErrNoCategories) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the geosite.db rule database")
	cmd.Flags().StringVarP(&bin, "bin", "b", "", "Path to the sing-box program")
	cmd.Flags().StringVarP(&wdir, "wdir", "w", "", "Working directory holding config.json")
	ctx.bindMetricsFlag(cmd)
	return cmd
}
