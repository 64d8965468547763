package config

import (
	"fmt"
	"strings"
)

// Setting keys accepted by the persisted store.
const (
	KeyProgram   = "bin"
	KeyWorkDir   = "wdir"
	KeyConfigDir = "cdir"
)

// Keys returns the persisted setting keys in display order.
func Keys() []string {
	return []string{KeyProgram, KeyWorkDir, KeyConfigDir}
}

// Settings mirrors the persisted config.toml record. Every field is optional.
type Settings struct {
	Bin  string `mapstructure:"bin" yaml:"bin" json:"bin"`
	Wdir string `mapstructure:"wdir" yaml:"wdir" json:"wdir"`
	Cdir string `mapstructure:"cdir" yaml:"cdir" json:"cdir"`
}

// Get returns the value stored under key, or an empty string for unknown keys.
func (s Settings) Get(key string) string {
	switch key {
	case KeyProgram:
		return s.Bin
	case KeyWorkDir:
		return s.Wdir
	case KeyConfigDir:
		return s.Cdir
	default:
		return ""
	}
}

// With returns a copy of s with key set to value.
func (s Settings) With(key, value string) (Settings, error) {
	switch key {
	case KeyProgram:
		s.Bin = value
	case KeyWorkDir:
		s.Wdir = value
	case KeyConfigDir:
		s.Cdir = value
	default:
		return s, fmt.Errorf("unknown setting %q (expected one of %s)", key, strings.Join(Keys(), ", "))
	}
	return s, nil
}

// String renders the settings as key=value lines.
func (s Settings) String() string {
	lines := make([]string, 0, len(Keys()))
	for _, key := range Keys() {
		lines = append(lines, key+"="+s.Get(key))
	}
	return strings.Join(lines, "\n")
}

// Option describes a path-valued command option that can fall back to a
// persisted setting.
type Option struct {
	// Key is the persisted setting name, empty for flag-only options.
	Key string
	// Flag is the user-facing flag spelling, e.g. "--bin/-b".
	Flag string
	// Description names the path in error messages.
	Description string
	// Dir requires the path to be a directory.
	Dir bool
}

var (
	ProgramOption   = Option{Key: KeyProgram, Flag: "--bin/-b", Description: "sing-box program path"}
	WorkDirOption   = Option{Key: KeyWorkDir, Flag: "--wdir/-w", Description: "working directory", Dir: true}
	ConfigDirOption = Option{Key: KeyConfigDir, Flag: "--cdir/-c", Description: "config directory", Dir: true}
	RuleDBOption    = Option{Flag: "--file/-f", Description: "rule database file"}
)
