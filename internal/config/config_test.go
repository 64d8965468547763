package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "singer", "config.toml"))

	settings, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Settings{}, settings)
}

func TestStoreSetPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "singer", "config.toml")
	store := NewStore(path)

	require.NoError(t, store.Set(KeyProgram, "/opt/sing-box"))
	require.NoError(t, store.Set(KeyConfigDir, "/etc/sing-box"))

	settings, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Settings{Bin: "/opt/sing-box", Cdir: "/etc/sing-box"}, settings)

	reloaded, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Equal(t, settings, reloaded)
}

func TestStoreSetRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	store := NewStore(path)

	err := store.Set("editor", "vim")
	require.ErrorContains(t, err, `unknown setting "editor"`)
	require.NoFileExists(t, path)
}

func TestStoreLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("bin = [unterminated\n"), 0o644))

	_, err := NewStore(path).Load()
	require.ErrorContains(t, err, path)
}

func TestStoreLoadReadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("bin = \"/first\"\n"), 0o644))
	store := NewStore(path)

	first, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("bin = \"/second\"\n"), 0o644))
	second, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSettingsString(t *testing.T) {
	settings := Settings{Bin: "/opt/sing-box", Wdir: "/srv/rules"}
	require.Equal(t, "bin=/opt/sing-box\nwdir=/srv/rules\ncdir=", settings.String())
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	flagBin := writeExecutable(t, dir, "flag-sing-box")
	storedBin := writeExecutable(t, dir, "stored-sing-box")

	store := NewStore(filepath.Join(dir, "config.toml"))
	require.NoError(t, store.Set(KeyProgram, storedBin))
	resolver := NewResolver(store)

	got, err := resolver.Resolve(ProgramOption, flagBin)
	require.NoError(t, err)
	require.Equal(t, flagBin, got)

	got, err = resolver.Resolve(ProgramOption, "")
	require.NoError(t, err)
	require.Equal(t, storedBin, got)
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeExecutable(t, dir, "sing-box")
	missing := filepath.Join(dir, "missing")

	store := NewStore(filepath.Join(dir, "config.toml"))
	require.NoError(t, store.Set(KeyWorkDir, missing))
	resolver := NewResolver(store)

	tests := []struct {
		name      string
		opt       Option
		flag      string
		kind      ErrorKind
		persisted bool
		message   string
	}{
		{
			name:    "missingEverywhere",
			opt:     ConfigDirOption,
			kind:    Missing,
			message: "missing option <--cdir/-c>, use '-h' to print help",
		},
		{
			name:    "flagDoesNotExist",
			opt:     ProgramOption,
			flag:    missing,
			kind:    NotExist,
			message: "<--bin/-b>: sing-box program path " + missing + " does not exist",
		},
		{
			name:      "persistedDoesNotExist",
			opt:       WorkDirOption,
			kind:      NotExist,
			persisted: true,
			message:   "<config.toml>: working directory " + missing + " does not exist",
		},
		{
			name:    "fileIsNotDirectory",
			opt:     WorkDirOption,
			flag:    file,
			kind:    NotDirectory,
			message: "<--wdir/-w>: working directory " + file + " is not a directory",
		},
		{
			name:    "flagOnlyOption",
			opt:     RuleDBOption,
			kind:    Missing,
			message: "missing option <--file/-f>, use '-h' to print help",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(tc.opt, tc.flag)
			var optErr *OptionError
			require.ErrorAs(t, err, &optErr)
			require.Equal(t, tc.kind, optErr.Kind)
			require.Equal(t, tc.persisted, optErr.Persisted)
			require.EqualError(t, err, tc.message)
		})
	}
}

func TestResolveReturnsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("rules", 0o755))

	got, err := NewResolver(nil).Resolve(WorkDirOption, "rules")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
	require.Equal(t, "rules", filepath.Base(got))
}

func TestResolveSurfacesSettingsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("bin = [\n"), 0o644))

	_, err := NewResolver(NewStore(path)).Resolve(ProgramOption, "")
	require.Error(t, err)
	var optErr *OptionError
	require.False(t, errors.As(err, &optErr))
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}
