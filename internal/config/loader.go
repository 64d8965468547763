package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	appDir       = "singer"
	settingsFile = "config.toml"
)

// DefaultPath returns the per-user settings location,
// <user config dir>/singer/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, settingsFile), nil
}

// Store reads and writes the persisted settings file. The file is read at
// most once; later calls to Load return the cached result.
type Store struct {
	path string

	loaded   bool
	settings Settings
	err      error
}

// NewStore returns a store backed by the TOML file at path. Nothing is read
// until Load is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted settings. A missing file yields empty settings.
func (s *Store) Load() (Settings, error) {
	if !s.loaded {
		s.settings, s.err = readSettings(s.path)
		s.loaded = true
	}
	return s.settings, s.err
}

// Set stores value under key and rewrites the settings file, creating its
// directory when needed.
func (s *Store) Set(key, value string) error {
	current, err := s.Load()
	if err != nil {
		return err
	}
	updated, err := current.With(key, value)
	if err != nil {
		return err
	}
	if err := writeSettings(s.path, updated); err != nil {
		return err
	}
	s.settings = updated
	return nil
}

func readSettings(path string) (Settings, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("%s: decode: %w", path, err)
	}
	return settings, nil
}

func writeSettings(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for _, key := range Keys() {
		if value := settings.Get(key); value != "" {
			v.Set(key, value)
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}
