package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "NAMEOFPERSON_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "nameofperson.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "nameofperson"
)

// configCandidates lists config file locations in priority order
func configCandidates() []string {
	var candidates []string

	if path := os.Getenv(EnvConfigPath); path != "" {
		candidates = append(candidates, path)
	}

	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		candidates = append(candidates, abs)
	} else {
		candidates = append(candidates, ConfigFileName)
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}

	return append(candidates, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file, or an empty
// string if there is none
func FindConfigPath() string {
	for _, path := range configCandidates() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
func DefaultConfigPath() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
