package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/singer/internal/cliutil"
	"github.com/Paintersrp/singer/internal/config"
	"github.com/Paintersrp/singer/internal/engine"
	"github.com/Paintersrp/singer/internal/log"
	"github.com/Paintersrp/singer/internal/metrics"
	"github.com/Paintersrp/singer/internal/runtime"
	"github.com/Paintersrp/singer/internal/runtime/process"
	"github.com/Paintersrp/singer/internal/ruleset"
)

const (
	programName = "sing-box"
	// stopPattern matches every sing-box image name, including versioned
	// and .exe builds.
	stopPattern = programName + "*"

	configEnv = "SINGER_CONFIG"
)

func newRootCommand() (*cobra.Command, *context) {
	ctx := &context{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	root := &cobra.Command{
		Use:   "singer",
		Short: "Run sing-box detached and compile geosite rule-sets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := log.ConfigFromEnv()
			if err != nil {
				return err
			}
			ctx.logger = log.New(cmd.ErrOrStderr(), cfg, ctx.verbose)
			cmd.SetContext(log.ContextAttrs(cmd.Context(),
				slog.Group("singer",
					slog.String("cmd", cmd.Name()),
					slog.Int("pid", os.Getpid()),
				),
			))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&ctx.configPath, "config", "", "Path to the settings file (env "+configEnv+")")
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newStartCmd(ctx))
	root.AddCommand(newStopCmd(ctx))
	root.AddCommand(newRestartCmd(ctx))
	root.AddCommand(newCompileCmd(ctx))
	root.AddCommand(newConfigCmd(ctx))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newSpawnCmd())

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, ctx
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cliCtx := newRootCommand()
	code := execute(ctx, root, cliCtx, os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		stop()
		os.Exit(code)
	}
}

// execute runs root with args and returns the process exit code. It is the
// only place errors are printed.
func execute(ctx stdcontext.Context, root *cobra.Command, cliCtx *context, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if mErr := metrics.WriteTextfile(cliCtx.metricsFile); mErr != nil {
		err = errors.Join(err, mErr)
	}
	if err == nil {
		return 0
	}
	cliutil.WriteErrors(stderr, err)
	return exitCode(err)
}

// exitError ends the process with code without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Exit codes for option resolution failures. Everything else exits 1.
const (
	exitMissingOption  = -1
	exitProgramMissing = -2
	exitPathMissing    = -3
)

func exitCode(err error) int {
	var optErr *config.OptionError
	if errors.As(err, &optErr) {
		switch {
		case optErr.Kind == config.Missing:
			return exitMissingOption
		case optErr.Option.Key == config.KeyProgram:
			return exitProgramMissing
		default:
			return exitPathMissing
		}
	}
	return 1
}

type context struct {
	configPath  string
	verbose     bool
	metricsFile string

	logger *slog.Logger
	store  *config.Store

	launcher   runtime.Launcher
	terminator runtime.Terminator
	runner     ruleset.Runner
}

// settings returns the settings store, opened on first use so commands that
// never need a persisted value never touch the user config dir.
func (c *context) settings() (*config.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	c.store = config.NewStore(path)
	return c.store, nil
}

func (c *context) resolver() (*config.Resolver, error) {
	store, err := c.settings()
	if err != nil {
		return nil, err
	}
	return config.NewResolver(store), nil
}

func (c *context) supervisor() *engine.Supervisor {
	launcher := c.launcher
	if launcher == nil {
		launcher = process.NewLauncher(process.WithLogger(c.logger))
	}
	terminator := c.terminator
	if terminator == nil {
		terminator = process.NewTerminator(process.WithLogger(c.logger))
	}
	return engine.NewSupervisor(launcher, terminator, stopPattern, engine.WithLogger(c.logger))
}

func (c *context) bindMetricsFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the command")
}
