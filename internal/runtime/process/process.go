package process

import (
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
)

// SpawnCommand is the hidden subcommand the double-fork launcher re-executes
// the current binary with. Its arguments are "--", the target program and the
// target arguments.
const SpawnCommand = "_spawn"

var errMissingProgram = errors.New("missing program to spawn")

// Option configures launchers and terminators built by this package.
type Option func(*options)

type options struct {
	trampoline []string
	logger     *slog.Logger
}

// WithTrampoline sets the intermediate process used for the first fork of the
// double-fork launcher: an executable path followed by the arguments that
// precede the target program. The Windows launcher ignores it.
func WithTrampoline(path string, args ...string) Option {
	return func(o *options) {
		o.trampoline = append([]string{path}, args...)
	}
}

// WithLogger sets the logger used for debug tracing of subprocess calls.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Spawn starts program detached from the calling process, with standard
// streams bound to the null device, and releases it without waiting.
func Spawn(program string, args []string) error {
	if program == "" {
		return errMissingProgram
	}
	cmd := exec.Command(program, args...)
	configureDetached(cmd, program, args)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// SpawnMain runs the intermediate side of a launch. args are the arguments
// following SpawnCommand; a leading "--" is skipped.
func SpawnMain(args []string) error {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 {
		return errMissingProgram
	}
	return Spawn(args[0], args[1:])
}

// commandLine quotes the program and every argument into a single command
// line the way CreateProcess expects it.
func commandLine(program string, args []string) string {
	var b strings.Builder
	b.WriteString(quoteArg(program))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(quoteArg(arg))
	}
	return b.String()
}

// quoteArg wraps s in double quotes. Backslashes are doubled only where they
// precede a quote, following the CommandLineToArgvW rules.
func quoteArg(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		b.WriteByte(c)
	}
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}

// globPattern translates an image-name glob into an anchored regular
// expression for pkill.
func globPattern(glob string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}
