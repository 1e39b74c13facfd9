// Package paths provides centralized path handling for isoenv.
// It implements XDG Base Directory specification compliance for the
// locations isoenv owns: its log file and its user configuration file.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppDirName is the directory name for isoenv-specific files
	AppDirName = "isoenv"

	// LogFileName is the name of the isoenv log file
	LogFileName = "isoenv.log"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "isoenv.toml"
)

// LogFile returns the path to the log file.
// It respects XDG_STATE_HOME if set, otherwise uses ~/.local/state/isoenv/
func LogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		// Fallback to current directory if we can't resolve a state home
		return LogFileName
	}
	return filepath.Join(stateHome, AppDirName, LogFileName)
}

// UserConfigFile returns the path of the user-level configuration file
// under the XDG config directory. The file may not exist.
// It respects XDG_CONFIG_HOME if set after process start, which the
// cached xdg package values do not.
func UserConfigFile() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, AppDirName, ConfigFileName)
}
