package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "MACTRACE_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "mactrace.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "mactrace"
)

// FindConfigPath searches for config file in priority order:
// 1. $MACTRACE_CONFIG (explicit path)
// 2. ./mactrace.yaml (working directory)
// 3. $XDG_CONFIG_HOME/mactrace/config.yaml
// 4. ~/.config/mactrace/config.yaml
// 5. /etc/mactrace/config.yaml
//
// Returns empty string if no config file found
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	systemPath := filepath.Join("/etc", ConfigDirName, "config.yaml")
	if fileExists(systemPath) {
		return systemPath
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
