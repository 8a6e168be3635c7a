// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.UI.Theme != "auto" || cfg.UI.PageSize != 50 {
		t.Errorf("UI defaults = %+v", cfg.UI)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadFromPathReadsFileAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
base_url = "https://qa.example.com"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "https://qa.example.com" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.MarkdownWidth != 100 {
		t.Errorf("MarkdownWidth = %d", cfg.UI.MarkdownWidth)
	}
}

func TestLoadFromPathRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad scheme", "[server]\nbase_url = \"ftp://example.com\"\n"},
		{"bad theme", "[ui]\ntheme = \"solarized\"\n"},
		{"bad level", "[log]\nlevel = \"trace\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFromPath(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PUBSAGE_BASE_URL", "http://10.0.0.5:8000")
	t.Setenv("PUBSAGE_API_TOKEN", "tok-123")
	t.Setenv("PUBSAGE_TIMEOUT_SECS", "90")
	t.Setenv("PUBSAGE_THEME", "dark")
	t.Setenv("PUBSAGE_LOG_LEVEL", "debug")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Auth.Token != "tok-123" {
		t.Errorf("Token = %q", cfg.Auth.Token)
	}
	if cfg.Server.TimeoutSecs != 90 {
		t.Errorf("TimeoutSecs = %d", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" || cfg.Log.Level != "debug" {
		t.Errorf("Theme = %q, Level = %q", cfg.UI.Theme, cfg.Log.Level)
	}
}

func TestEnvOverrideIgnoresBadTimeout(t *testing.T) {
	t.Setenv("PUBSAGE_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Server.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want default 30", cfg.Server.TimeoutSecs)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Auth.Token = "sekrit"
	cfg.UI.Theme = "dark"
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("config permissions = %o, want 0600", perm)
		}
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Auth.Token != "sekrit" || loaded.UI.Theme != "dark" {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestEnsureSecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ensureSecurePermissions(path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}
