// Package config handles the daemon's process-bootstrap configuration: bind
// address, base data directory, and log level. This is distinct from the
// operator-editable domain settings in internal/settings (nustatymai.txt) —
// config answers "where do I run," settings answers "how do I behave."
// Adapted from the teacher's TOML config loader, trimmed to the bootstrap
// concerns a flat KEY=VALUE settings file doesn't cover.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level process bootstrap configuration.
type Config struct {
	BaseDir  string        `toml:"base_dir" json:"base_dir"`
	Server   ServerConfig  `toml:"server"   json:"server"`
	Logging  LoggingConfig `toml:"logging"  json:"logging"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// DefaultConfigDir returns the XDG-compliant config directory.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "groundstationd")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "groundstationd")
}

// DefaultBaseDir returns the flat directory spec.md's file layout lives
// under (tle.txt, laikai.txt, selection.json, current.json, nustatymai.txt,
// kalbos/, the gallery directory) — deliberately NOT nested under XDG data conventions,
// since spec.md mandates these files be siblings.
func DefaultBaseDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "groundstationd")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "groundstationd")
}

// FindConfigFile searches standard locations for the bootstrap TOML file:
//  1. $GROUNDSTATIOND_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/groundstationd/config.toml
//  3. /etc/groundstationd/groundstationd.toml
//
// An empty return means the caller should use Default() directly.
func FindConfigFile() string {
	if env := os.Getenv("GROUNDSTATIOND_CONFIG"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}

	xdgPath := filepath.Join(DefaultConfigDir(), "config.toml")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	legacyPath := "/etc/groundstationd/groundstationd.toml"
	if _, err := os.Stat(legacyPath); err == nil {
		return legacyPath
	}

	return ""
}

// Default returns sane process-bootstrap defaults.
func Default() Config {
	return Config{
		BaseDir: DefaultBaseDir(),
		Server:  ServerConfig{Bind: "0.0.0.0:8080"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the TOML file at path, layers it on the defaults, validates,
// and ensures BaseDir exists.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	cfg.BaseDir = expandHome(cfg.BaseDir)

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, EnsureDirectories(cfg)
}

// EnsureDirectories creates the config dir and base data directory.
func EnsureDirectories(cfg Config) error {
	if err := os.MkdirAll(DefaultConfigDir(), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(cfg.BaseDir, "kalbos"), 0o755)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func validate(cfg Config) error {
	if cfg.BaseDir == "" {
		return errors.New("base_dir must not be empty")
	}
	if cfg.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	return nil
}
