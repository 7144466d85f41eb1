// ABOUTME: CLI-local defaults loading for coven-control.
// ABOUTME: Reads an optional TOML file from the XDG config directory.

package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// cliDefaults holds per-machine CLI preferences. Everything is optional; the
// file not existing is not an error.
type cliDefaults struct {
	ConfigPath string `toml:"config_path"`
	NoColor    bool   `toml:"no_color"`
}

// loadCLIDefaults reads ~/.config/coven/control-cli.toml (respecting
// XDG_CONFIG_HOME). Returns nil if the file is absent or unreadable.
func loadCLIDefaults() *cliDefaults {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	path := filepath.Join(configDir, "coven", "control-cli.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var defaults cliDefaults
	if _, err := toml.Decode(string(data), &defaults); err != nil {
		return nil
	}

	if defaults.NoColor {
		os.Setenv("NO_COLOR", "1")
	}
	return &defaults
}
