// Package config provides configuration management for mactrace.
//
// Every setting has a built-in default; the YAML file exists to tune the
// tool for fleets with unusual platforms (odd command spellings, interface
// naming, slow devices).
//
// Config file locations (priority order):
//  1. $MACTRACE_CONFIG
//  2. ./mactrace.yaml
//  3. ~/.config/mactrace/config.yaml
//  4. /etc/mactrace/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Session.ConnectTimeoutSeconds == 0 {
		c.Session.ConnectTimeoutSeconds = 20
	}
	if c.Session.CommandTimeoutSeconds == 0 {
		c.Session.CommandTimeoutSeconds = 60
	}
	if c.Templates.MacTable == "" {
		c.Templates.MacTable = "cisco_ios_show_mac_address_table"
	}
	if c.Templates.ArpTable == "" {
		c.Templates.ArpTable = "cisco_ios_show_ip_arp"
	}
	if c.SNMP.Port == 0 {
		c.SNMP.Port = 161
	}
}
