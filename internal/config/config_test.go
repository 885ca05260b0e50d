package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/paneboard/internal/state"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
target = "%3"
layout = "/tmp/layout.jsonc"
sender = "control"
send_timeout = "500ms"
sticky_modifiers = ["shift", "ctrl"]
watch_layout = false

[history]
enabled = true
path = "/tmp/history.db"
retention_days = 7

[log]
level = "debug"
path = "/tmp/paneboard.log"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Target != "%3" {
		t.Errorf("Target = %q, want %%3", cfg.Target)
	}
	if cfg.LayoutPath != "/tmp/layout.jsonc" {
		t.Errorf("LayoutPath = %q", cfg.LayoutPath)
	}
	if cfg.Sender != SenderControl {
		t.Errorf("Sender = %q, want control", cfg.Sender)
	}
	if cfg.SendTimeout != 500*time.Millisecond {
		t.Errorf("SendTimeout = %v, want 500ms", cfg.SendTimeout)
	}
	if cfg.WatchLayout {
		t.Error("WatchLayout should be false")
	}
	if !cfg.History.Enabled || cfg.History.Path != "/tmp/history.db" || cfg.History.RetentionDays != 7 {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Path != "/tmp/paneboard.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	sticky, err := cfg.Sticky()
	if err != nil {
		t.Fatalf("Sticky: %v", err)
	}
	want := state.NewModifierSet(state.Shift, state.Ctrl)
	if sticky != want {
		t.Errorf("Sticky = %v, want %v", sticky, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `target = "%0"`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Sender != def.Sender {
		t.Errorf("Sender = %q, want %q", cfg.Sender, def.Sender)
	}
	if cfg.SendTimeout != def.SendTimeout {
		t.Errorf("SendTimeout = %v, want %v", cfg.SendTimeout, def.SendTimeout)
	}
	if !cfg.WatchLayout {
		t.Error("WatchLayout should default to true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should default to false")
	}
}

func TestLoadHistoryPathDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[history]\nenabled = true\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.History.Path == "" {
		t.Error("History.Path should default when history is enabled")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `target = `},
		{"bad sender", `sender = "carrier-pigeon"`},
		{"bad modifier", `sticky_modifiers = ["hyper"]`},
		{"bad duration", `send_timeout = "fast"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
