// Package config loads and persists user configuration for ptyhost.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/ptyhost/internal/ptybackend"
)

// Config is the user-facing configuration, stored as TOML under the XDG
// config directory.
type Config struct {
	Terminal TerminalConfig `toml:"terminal"`
	Session  SessionConfig  `toml:"session"`
}

// TerminalConfig controls the terminal identity and size advertised to
// spawned sessions when the local terminal size is unknown.
type TerminalConfig struct {
	Term string `toml:"term"`
	Cols int    `toml:"cols"`
	Rows int    `toml:"rows"`
}

// SessionConfig controls how sessions are spawned.
type SessionConfig struct {
	// Shell overrides shell autodetection for bare `ptyhost run`.
	Shell string `toml:"shell"`
	// FlowControl enables XON/XOFF handling on spawned sessions.
	FlowControl bool `toml:"flow_control"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Terminal: TerminalConfig{
			Term: ptybackend.DefaultTerm,
			Cols: ptybackend.DefaultCols,
			Rows: ptybackend.DefaultRows,
		},
		Session: SessionConfig{
			Shell:       "",
			FlowControl: false,
		},
	}
}

// GetConfigPath returns the path of the user configuration file,
// creating parent directories as needed.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile("ptyhost/config.toml")
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads the user configuration file, falling back to
// defaults when no file exists. A file that exists but does not parse is
// an error; silently ignoring it would make edits appear to do nothing.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

// LoadConfig reads a configuration file from an explicit path. Missing
// files yield the defaults. Fields absent from the file keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
