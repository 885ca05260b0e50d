// Package config loads the application configuration from a TOML file
// and locates the default config and layout documents under the XDG
// config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/paneboard/internal/state"
)

// appDir is the directory name under $XDG_CONFIG_HOME.
const appDir = "paneboard"

// Sender transport names accepted in the config file.
const (
	SenderExec    = "exec"
	SenderControl = "control"
)

// Config is the application configuration. Zero values fall back to
// the defaults from DefaultConfig.
type Config struct {
	// Target is the destination pane in tmux target syntax ("%3",
	// "session:window.pane", ...). The -t flag overrides it.
	Target string `toml:"target"`

	// LayoutPath locates the layout document. Empty means the file
	// under the XDG config dir, falling back to the built-in layout
	// when that does not exist.
	LayoutPath string `toml:"layout"`

	// Sender selects the delivery transport: "exec" spawns one tmux
	// send-keys per payload, "control" keeps a control-mode client
	// attached.
	Sender string `toml:"sender"`

	// SendTimeoutStr bounds one delivery, in time.ParseDuration
	// syntax ("3s", "500ms"). SendTimeout holds the parsed value.
	SendTimeoutStr string        `toml:"send_timeout"`
	SendTimeout    time.Duration `toml:"-"`

	// StickyModifiers lists modifiers that stay latched across
	// dispatches instead of clearing one-shot.
	StickyModifiers []string `toml:"sticky_modifiers"`

	// WatchLayout reloads the layout document when it changes on
	// disk.
	WatchLayout bool `toml:"watch_layout"`

	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// HistoryConfig controls the delivery history store.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// RetentionDays prunes records older than this on startup.
	RetentionDays int `toml:"retention_days"`
}

// LogConfig controls logging. The UI owns the terminal, so logs go to
// a file.
type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Sender:      SenderExec,
		SendTimeout: 3 * time.Second,
		WatchLayout: true,
		History: HistoryConfig{
			RetentionDays: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.toml")
}

// DefaultLayoutPath returns the default layout document location.
func DefaultLayoutPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "layout.jsonc")
}

// DefaultHistoryPath returns the default history database location.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.DataHome, appDir, "history.db")
}

// Load reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	def := DefaultConfig()
	if c.Sender == "" {
		c.Sender = def.Sender
	}
	if c.SendTimeoutStr != "" {
		d, err := time.ParseDuration(c.SendTimeoutStr)
		if err != nil {
			return fmt.Errorf("send_timeout: %w", err)
		}
		c.SendTimeout = d
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = def.SendTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = def.History.RetentionDays
	}
	if c.History.Enabled && c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
	return nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Sender {
	case SenderExec, SenderControl:
	default:
		return fmt.Errorf("unknown sender %q", c.Sender)
	}
	if _, err := c.Sticky(); err != nil {
		return err
	}
	return nil
}

// Sticky parses the sticky modifier names into a set.
func (c *Config) Sticky() (state.ModifierSet, error) {
	var set state.ModifierSet
	for _, name := range c.StickyModifiers {
		m, err := state.ParseModifier(name)
		if err != nil {
			return 0, fmt.Errorf("sticky_modifiers: %w", err)
		}
		set |= state.NewModifierSet(m)
	}
	return set, nil
}
