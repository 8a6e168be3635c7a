// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for pubsage.
//
// Configuration sources, in order of precedence:
//   - PUBSAGE_* environment variables
//   - ~/.pubsage/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/pubsage-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete pubsage configuration.
type Config struct {
	Server ServerConfig `toml:"server" json:"server"`
	Auth   AuthConfig   `toml:"auth" json:"auth"`
	UI     UIConfig     `toml:"ui" json:"ui"`
	Log    LogConfig    `toml:"log" json:"log"`
}

// ServerConfig locates the publications backend.
type ServerConfig struct {
	// BaseURL is the backend base URL.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the JSON request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// AuthConfig holds the bearer token. An empty token is valid; requests are
// then sent anonymously and the backend decides whether to allow them.
type AuthConfig struct {
	Token string `toml:"token" json:"token"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Theme is "dark", "light", or "auto".
	Theme string `toml:"theme" json:"theme"`
	// MarkdownWidth is the wrap width for rendered markdown.
	MarkdownWidth int `toml:"markdown_width" json:"markdown_width"`
	// PageSize is how many documents to fetch per list page.
	PageSize int `toml:"page_size" json:"page_size"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level" json:"level"`
	// File is the log path; empty means ~/.pubsage/pubsage.log.
	File string `toml:"file" json:"file"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
		},
		UI: UIConfig{
			Theme:         "auto",
			MarkdownWidth: 100,
			PageSize:      50,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the pubsage configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".pubsage"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// ensureSecurePermissions tightens config file permissions to 0600; the
// file can hold the bearer token.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applies env overrides, and validates.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := ensureSecurePermissions(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config atomically to the default path with 0600
// permissions.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the config atomically to an explicit path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// OVERRIDES / DEFAULTS / VALIDATION
// =============================================================================

// ApplyEnvOverrides applies PUBSAGE_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PUBSAGE_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("PUBSAGE_API_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv("PUBSAGE_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("PUBSAGE_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("PUBSAGE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// SetDefaults fills any zero values left after loading.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = d.Server.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.MarkdownWidth <= 0 {
		c.UI.MarkdownWidth = d.UI.MarkdownWidth
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = d.UI.PageSize
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url %q is not a valid URL", c.Server.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url scheme must be http or https, got %q", u.Scheme)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	return nil
}
