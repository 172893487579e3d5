// Package config holds server configuration: defaults, an optional YAML
// file, and validation. Command-line flags are applied on top by cmd/server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/pkg/model"
)

// ServerConfig holds configuration for the procviz server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // Listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
	DBPath    string `yaml:"db_path"`    // SQLite database path (":memory:" for testing)

	SecureCookies bool `yaml:"secure_cookies"` // set when served over HTTPS

	// DefaultQuantum is the Round Robin slice given to new workspaces.
	DefaultQuantum int `yaml:"default_quantum"`
	// EnabledPolicies restricts the menu. Empty enables every policy.
	EnabledPolicies []model.PolicyName `yaml:"enabled_policies"`

	WorkspaceTTL  time.Duration `yaml:"workspace_ttl"`  // 0 keeps workspaces forever
	SweepInterval time.Duration `yaml:"sweep_interval"` // how often idle workspaces are swept
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		DBPath:         "procviz.db",
		DefaultQuantum: model.DefaultQuantum,
		WorkspaceTTL:   24 * time.Hour,
		SweepInterval:  10 * time.Minute,
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if err := logging.CheckLevel(c.LogLevel); err != nil {
		return err
	}
	if err := logging.CheckFormat(c.LogFormat); err != nil {
		return err
	}
	if c.DefaultQuantum <= 0 {
		return fmt.Errorf("default_quantum must be greater than zero, got %d", c.DefaultQuantum)
	}
	for _, p := range c.EnabledPolicies {
		if !p.IsKnown() {
			return fmt.Errorf("enabled_policies: unknown policy %q", p)
		}
	}
	if c.WorkspaceTTL < 0 {
		return fmt.Errorf("workspace_ttl must not be negative")
	}
	if c.WorkspaceTTL > 0 && c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive when workspace_ttl is set")
	}
	return nil
}

// PolicyEnabled reports whether p is offered. All known policies are
// enabled when EnabledPolicies is empty.
func (c ServerConfig) PolicyEnabled(p model.PolicyName) bool {
	if !p.IsKnown() {
		return false
	}
	if len(c.EnabledPolicies) == 0 {
		return true
	}
	for _, e := range c.EnabledPolicies {
		if e == p {
			return true
		}
	}
	return false
}
