// Package paths resolves the configuration and data directories of the
// taskdesk CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform base directories.
const AppName = "taskdesk"

// EnvConfigDir overrides the configuration directory. The data directory
// has no variable of its own here: TASKDESK_DATA_DIR reaches it through the
// data_dir config key.
const EnvConfigDir = "TASKDESK_CONFIG_DIR"

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// baseDir returns the XDG directory named by xdgEnv on Linux, falling back
// to ~/<fallback...>. Other platforms use os.UserConfigDir.
func baseDir(xdgEnv string, fallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/taskdesk (fallback ~/.config/taskdesk)
// Others:  os.UserConfigDir()/taskdesk
func DefaultConfigDir() (string, error) {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/taskdesk (fallback ~/.local/share/taskdesk)
// Others:  os.UserConfigDir()/taskdesk
func DefaultDataDir() (string, error) {
	return baseDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir applies flag > TASKDESK_CONFIG_DIR > DefaultConfigDir.
// Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > configured value > DefaultDataDir.
// Explicit values are made absolute.
func ResolveDataDir(flag, configured string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configured != "" {
		return filepath.Abs(configured)
	}
	return DefaultDataDir()
}
