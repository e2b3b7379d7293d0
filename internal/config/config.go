// Package config provides configuration management for nameofperson.
//
// Values are resolved in three layers: the config file, then environment
// variables, then defaults for anything still unset.
//
// Config file locations (priority order):
//  1. $NAMEOFPERSON_CONFIG
//  2. ./nameofperson.yaml
//  3. $XDG_CONFIG_HOME/nameofperson/config.yaml
//  4. ~/.config/nameofperson/config.yaml
//  5. /etc/nameofperson/config.yaml
package config

import (
	"fmt"
	"os"

	"nameofperson/internal/cast"
	"nameofperson/internal/codec"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultDatabasePath = "./nameofperson.db"
	defaultExportFormat = "json"
	defaultServerAddr   = ":3000"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides apply in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := &Config{}
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		cfg.applyDefaults()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Database: DatabaseConfig{Path: defaultDatabasePath},
		Names:    NamesConfig{Cast: cast.Default().Definition()},
		Export:   ExportConfig{Format: defaultExportFormat},
		Server:   ServerConfig{Addr: defaultServerAddr},
	}
}

// applyEnv overlays environment variables; unset variables keep file values
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Names.Cast == "" {
		c.Names.Cast = cast.Default().Definition()
	}
	if c.Export.Format == "" {
		c.Export.Format = defaultExportFormat
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
}

// Validate checks values that are only meaningful once parsed
func (c *Config) Validate() error {
	if _, err := c.NameCast(); err != nil {
		return fmt.Errorf("names.cast: %w", err)
	}
	if _, err := codec.ForFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	return nil
}

// NameCast builds the cast described by Names.Cast
func (c *Config) NameCast() (*cast.PersonNameCast, error) {
	return cast.Parse(c.Names.Cast)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Database: %s\n", c.Database.Path)
	summary += fmt.Sprintf("Name cast: %s\n", c.Names.Cast)
	summary += fmt.Sprintf("Export format: %s\n", c.Export.Format)
	summary += fmt.Sprintf("Server address: %s", c.Server.Addr)
	return summary
}
