package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/me/procviz/pkg/model"
)

func TestDefaultServerConfig_Valid(t *testing.T) {
	if err := DefaultServerConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procviz.yaml")
	content := `addr: ":9090"
log_format: json
default_quantum: 4
enabled_policies: [fcfs, sjf]
workspace_ttl: 2h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
	if cfg.DefaultQuantum != 4 {
		t.Errorf("DefaultQuantum = %d", cfg.DefaultQuantum)
	}
	if cfg.WorkspaceTTL != 2*time.Hour {
		t.Errorf("WorkspaceTTL = %v", cfg.WorkspaceTTL)
	}
	if cfg.SweepInterval != 10*time.Minute {
		t.Errorf("SweepInterval = %v, want default", cfg.SweepInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("addr: [\n"), 0o644)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"empty addr", func(c *ServerConfig) { c.Addr = "" }},
		{"bad level", func(c *ServerConfig) { c.LogLevel = "loud" }},
		{"bad format", func(c *ServerConfig) { c.LogFormat = "xml" }},
		{"zero quantum", func(c *ServerConfig) { c.DefaultQuantum = 0 }},
		{"unknown policy", func(c *ServerConfig) { c.EnabledPolicies = []model.PolicyName{"mlfq"} }},
		{"negative ttl", func(c *ServerConfig) { c.WorkspaceTTL = -time.Second }},
		{"ttl without interval", func(c *ServerConfig) { c.SweepInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPolicyEnabled(t *testing.T) {
	cfg := DefaultServerConfig()
	for _, p := range model.Policies {
		if !cfg.PolicyEnabled(p) {
			t.Errorf("%s should be enabled by default", p)
		}
	}
	if cfg.PolicyEnabled("mlfq") {
		t.Error("unknown policy should never be enabled")
	}

	cfg.EnabledPolicies = []model.PolicyName{model.PolicyFCFS}
	if !cfg.PolicyEnabled(model.PolicyFCFS) {
		t.Error("fcfs should be enabled")
	}
	if cfg.PolicyEnabled(model.PolicyRR) {
		t.Error("rr should be disabled")
	}
}
