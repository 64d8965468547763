package ruleset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/singer/internal/metrics"
)

// ErrNoCategories is returned when a run is requested without categories.
var ErrNoCategories = errors.New("no valid categories found")

// Stage names a step of the per-category pipeline.
type Stage string

const (
	StageExport  Stage = metrics.StageExport
	StageCompile Stage = metrics.StageCompile
	StageCleanup Stage = metrics.StageCleanup
)

// IntermediateName is the exported rule file for category.
func IntermediateName(category string) string {
	return "geosite-" + category + ".json"
}

// ArtifactName is the compiled rule-set for category.
func ArtifactName(category string) string {
	return "geosite-" + category + ".srs"
}

// ExportCommand exports category from ruleDB into the work directory.
func ExportCommand(program, category, ruleDB, workDir string) Command {
	return Command{
		Path: program,
		Args: []string{
			"geosite", "export", category,
			"-f", ruleDB,
			"-o", filepath.Join(workDir, IntermediateName(category)),
			"-D", workDir,
		},
	}
}

// CompileCommand compiles the exported file of category. The file name is
// relative; sing-box resolves it against the -D directory.
func CompileCommand(program, category, workDir string) Command {
	return Command{
		Path: program,
		Args: []string{"rule-set", "compile", IntermediateName(category), "-D", workDir},
	}
}

// StageError reports a pipeline step whose command exited unsuccessfully.
type StageError struct {
	Category string
	Stage    Stage
	Program  string
	ExitCode int
	Stderr   string
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s %s: %s exited with status %d", e.Stage, e.Category, e.Program, e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Outcome is the result of processing one category.
type Outcome struct {
	Category string
	// Stage is the last stage attempted.
	Stage Stage
	// Artifact is the compiled rule-set path, set when compile succeeded.
	Artifact string
	Err      error
}

// OK reports whether the category was exported and compiled.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report collects the outcomes of a run in input order.
type Report struct {
	Outcomes []Outcome
}

// Succeeded counts categories that compiled.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed counts categories with a failed stage.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Request describes one pipeline run.
type Request struct {
	Program    string
	RuleDB     string
	WorkDir    string
	Categories []string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunner replaces the command runner.
func WithRunner(runner Runner) Option {
	return func(p *Pipeline) {
		if runner != nil {
			p.runner = runner
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithOutput sets where progress and failure lines are printed.
func WithOutput(out, errOut io.Writer) Option {
	return func(p *Pipeline) {
		if out != nil {
			p.out = out
		}
		if errOut != nil {
			p.errOut = errOut
		}
	}
}

// Pipeline runs export and compile for each category of a Request.
type Pipeline struct {
	runner Runner
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// New constructs a pipeline that runs commands with ExecRunner unless
// configured otherwise.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		runner: ExecRunner{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    io.Discard,
		errOut: io.Discard,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run processes every category of req sequentially. Category failures are
// recorded in the report and do not make Run fail; an error is returned only
// when no categories were given, a command could not be started, or ctx was
// cancelled. The report holds the outcomes gathered so far in every case.
func (p *Pipeline) Run(ctx context.Context, req Request) (Report, error) {
	var report Report
	if len(req.Categories) == 0 {
		return report, ErrNoCategories
	}

	for _, category := range req.Categories {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := p.process(ctx, req, category)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	fmt.Fprintf(p.out, "Compiled %d of %d categories\n", report.Succeeded(), len(report.Outcomes))
	p.logger.InfoContext(ctx, "rule-set compilation finished",
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
	)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, req Request, category string) (Outcome, error) {
	outcome := Outcome{Category: category, Stage: StageExport}
	program := filepath.Base(req.Program)

	exported, err := p.step(ctx, StageExport, category, program, ExportCommand(req.Program, category, req.RuleDB, req.WorkDir))
	if err != nil {
		return outcome, err
	}
	if exported != nil {
		outcome.Err = exported
		return outcome, nil
	}

	outcome.Stage = StageCompile
	compiled, err := p.step(ctx, StageCompile, category, program, CompileCommand(req.Program, category, req.WorkDir))
	if err != nil {
		return outcome, err
	}
	if compiled != nil {
		outcome.Err = compiled
		return outcome, nil
	}
	outcome.Artifact = filepath.Join(req.WorkDir, ArtifactName(category))

	intermediate := filepath.Join(req.WorkDir, IntermediateName(category))
	if err := os.Remove(intermediate); err != nil && !errors.Is(err, fs.ErrNotExist) {
		outcome.Stage = StageCleanup
		outcome.Err = fmt.Errorf("remove %s: %w", intermediate, err)
		fmt.Fprintf(p.errOut, "Error: %v\n", outcome.Err)
		metrics.RecordCategory(string(StageCleanup), outcome.Err)
	}
	return outcome, nil
}

// step runs one command. The first return value is the stage failure to
// record for the category; the second aborts the whole run.
func (p *Pipeline) step(ctx context.Context, stage Stage, category, program string, cmd Command) (*StageError, error) {
	p.logger.DebugContext(ctx, "running pipeline step", "stage", stage, "category", category, "command", cmd.String())

	result, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", stage, category, err)
	}
	if result.Success() {
		fmt.Fprintf(p.out, "Successfully %s %s\n", pastTense(stage), category)
		metrics.RecordCategory(string(stage), nil)
		return nil, nil
	}

	stageErr := &StageError{
		Category: category,
		Stage:    stage,
		Program:  program,
		ExitCode: result.ExitCode,
		Stderr:   result.Stderr,
	}
	fmt.Fprintf(p.errOut, "Failed to %s %s\n", stage, category)
	fmt.Fprintf(p.errOut, "Error: %s\n", diagnostic(stageErr))
	metrics.RecordCategory(string(stage), stageErr)
	p.logger.InfoContext(ctx, "pipeline step failed",
		"stage", stage,
		"category", category,
		"exit_code", result.ExitCode,
	)
	return stageErr, nil
}

func diagnostic(e *StageError) string {
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		return e.Program + ": " + detail
	}
	return fmt.Sprintf("%s exited with status %d", e.Program, e.ExitCode)
}

func pastTense(stage Stage) string {
	if strings.HasSuffix(string(stage), "e") {
		return string(stage) + "d"
	}
	return string(stage) + "ed"
}
