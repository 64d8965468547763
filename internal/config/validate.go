package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrorKind classifies option resolution failures.
type ErrorKind int

const (
	// Missing means neither a flag nor a persisted value was supplied.
	Missing ErrorKind = iota + 1
	// NotExist means the resolved path does not exist.
	NotExist
	// NotDirectory means a directory option points at something else.
	NotDirectory
)

// OptionError reports an option that could not be resolved to an existing
// path.
type OptionError struct {
	Option    Option
	Kind      ErrorKind
	Path      string
	Persisted bool
}

func (e *OptionError) Error() string {
	if e.Kind == Missing {
		return fmt.Sprintf("missing option <%s>, use '-h' to print help", e.Option.Flag)
	}
	source := "<" + e.Option.Flag + ">"
	if e.Persisted {
		source = "<" + settingsFile + ">"
	}
	if e.Kind == NotDirectory {
		return fmt.Sprintf("%s: %s %s is not a directory", source, e.Option.Description, e.Path)
	}
	return fmt.Sprintf("%s: %s %s does not exist", source, e.Option.Description, e.Path)
}

// Resolver resolves options against flag values first and the persisted
// settings second.
type Resolver struct {
	store *Store
}

// NewResolver returns a resolver falling back to store. A nil store means no
// persisted settings.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the absolute path for opt. flagValue wins when non-empty.
func (r *Resolver) Resolve(opt Option, flagValue string) (string, error) {
	if flagValue != "" {
		return checkPath(opt, flagValue, false)
	}
	if opt.Key == "" || r.store == nil {
		return "", &OptionError{Option: opt, Kind: Missing}
	}
	settings, err := r.store.Load()
	if err != nil {
		return "", err
	}
	value := settings.Get(opt.Key)
	if value == "" {
		return "", &OptionError{Option: opt, Kind: Missing}
	}
	return checkPath(opt, value, true)
}

func checkPath(opt Option, path string, persisted bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &OptionError{Option: opt, Kind: NotExist, Path: path, Persisted: persisted}
		}
		return "", fmt.Errorf("%s %s: %w", opt.Description, path, err)
	}
	if opt.Dir && !info.IsDir() {
		return "", &OptionError{Option: opt, Kind: NotDirectory, Path: path, Persisted: persisted}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", opt.Description, err)
	}
	return abs, nil
}
