// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".logistics"
	DefaultDataDirName   = ".logistics-db"
)

// appName names the per-user platform directory.
const appName = "logistics"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LOGISTICS_CONFIG_DIR"
	EnvDataDir   = "LOGISTICS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific per-user configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/logistics (fallback ~/.config/logistics)
// macOS:   ~/Library/Application Support/logistics
// Windows: %APPDATA%/logistics
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > LOGISTICS_CONFIG_DIR env > ./.logistics > DefaultConfigDir().
//
// The CWD-relative directory is used when it exists or when no per-user
// directory can be determined; `logistics init` creates it.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	local := filepath.Join(cwd, DefaultConfigDirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}
	if dir, err := DefaultConfigDir(); err == nil {
		return dir, nil
	}
	return local, nil
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > LOGISTICS_DATA_DIR env > ./.logistics-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
