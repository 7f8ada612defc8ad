// Package config loads arcflowctl's on-disk TOML configuration, following
// the same locate-then-decode-then-normalize shape five82-spindle uses for
// its own daemon config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage selects and configures the PlaylistService backend.
type Storage struct {
	Driver string `toml:"driver"` // "memory" | "sqlite" | "postgres"
	DSN    string `toml:"dsn"`
}

// Broadcast configures the Redis pub/sub channel state changes are
// published to.
type Broadcast struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Channel string `toml:"channel"`
}

// Export configures where ExportRequested's Download collaborator writes.
type Export struct {
	Dir string `toml:"dir"`
}

// Debug configures the read-only HTTP introspection surface.
type Debug struct {
	Enabled bool   `toml:"enabled"`
	Bind    string `toml:"bind"`
}

// Config is arcflowctl's full on-disk configuration.
type Config struct {
	Storage   Storage   `toml:"storage"`
	Broadcast Broadcast `toml:"broadcast"`
	Export    Export    `toml:"export"`
	Debug     Debug     `toml:"debug"`
}

// Default returns the configuration arcflowctl runs with when no config
// file is found: an in-memory store, broadcast and debug surfaces off.
func Default() Config {
	return Config{
		Storage: Storage{Driver: "memory"},
		Export:  Export{Dir: "."},
		Debug:   Debug{Bind: "127.0.0.1:4756"},
	}
}

// DefaultConfigPath returns the absolute path to arcflowctl's default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/arcflowctl/config.toml")
}

// Load locates, parses, and env-overrides a configuration file. path, when
// non-empty, takes precedence over the default location. The returned bool
// reports whether a file was actually found and read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// applyEnvOverrides lets deployment environments override the most
// operationally relevant fields without editing the config file, mirroring
// the teacher's getenv(key, fallback) pattern at the process boundary.
func (c *Config) applyEnvOverrides() {
	if v := getenv("ARCFLOW_STORAGE_DRIVER", ""); v != "" {
		c.Storage.Driver = v
	}
	if v := getenv("ARCFLOW_STORAGE_DSN", ""); v != "" {
		c.Storage.DSN = v
	}
	if v := getenv("ARCFLOW_BROADCAST_URL", ""); v != "" {
		c.Broadcast.URL = v
		c.Broadcast.Enabled = true
	}
	if v := getenv("ARCFLOW_DEBUG_BIND", ""); v != "" {
		c.Debug.Bind = v
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
