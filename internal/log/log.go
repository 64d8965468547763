package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/term"
)

type slogKeyT struct{}

var slogKey slogKeyT

// ContextHandler adds attributes stored with ContextAttrs to every record.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(handler slog.Handler) ContextHandler {
	return ContextHandler{
		Handler: handler,
	}
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if a, ok := ctx.Value(slogKey).([]slog.Attr); ok {
		r.AddAttrs(a...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

func ContextAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	a, ok := ctx.Value(slogKey).([]slog.Attr)
	if !ok || a == nil {
		a = make([]slog.Attr, 0, len(attrs))
	}
	a = append(a, attrs...)
	return context.WithValue(ctx, slogKey, a)
}

// Config selects the log level and output format.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"SINGER_LOG_LEVEL" envDefault:"warn"`
	// Format is text, json, or auto (text on a terminal, json otherwise).
	Format string `env:"SINGER_LOG_FORMAT" envDefault:"auto"`
}

// ConfigFromEnv reads Config from SINGER_LOG_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse log config: %w", err)
	}
	return cfg, nil
}

// New builds a logger writing to w. verbose forces the debug level.
func New(w io.Writer, cfg Config, verbose bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}

	var base slog.Handler
	if useText(w, cfg.Format) {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}
	return slog.New(NewContextHandler(base))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func useText(w io.Writer, format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
