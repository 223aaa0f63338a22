// Package config handles npc's runtime options: the ones that come from the
// environment rather than from campaign settings files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// Options are read from NPC_* environment variables. Command-line flags
// override them.
type Options struct {
	// UserDir holds the user settings tier. Defaults to DefaultUserDir().
	UserDir string `env:"NPC_USER_DIR"`

	// LogLevel is one of debug, info, warn, error or fatal.
	LogLevel string `env:"NPC_LOG_LEVEL" envDefault:"warn"`

	// NoColor disables styled output.
	NoColor bool `env:"NPC_NO_COLOR"`

	// Campaign is the directory to search for a campaign root instead of
	// the working directory.
	Campaign string `env:"NPC_CAMPAIGN"`

	// Accent is an optional accent color for terminal output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `env:"NPC_ACCENT"`
}

// Load reads options from the process environment.
func Load() (*Options, error) {
	return parse(env.Options{})
}

// LoadFrom reads options from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Options, error) {
	return parse(env.Options{Environment: environ})
}

func parse(eo env.Options) (*Options, error) {
	var o Options
	if err := env.ParseWithOptions(&o, eo); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if o.UserDir == "" {
		o.UserDir = DefaultUserDir()
	}
	if _, err := o.Level(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Level parses LogLevel.
func (o *Options) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return log.WarnLevel, fmt.Errorf("invalid log level %q", o.LogLevel)
	}
	return lvl, nil
}

// DefaultUserDir returns the user settings directory.
// Checks ~/.config/npc first (XDG style),
// then falls back to the OS-specific location.
func DefaultUserDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "npc")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "npc")
	}

	return ""
}
