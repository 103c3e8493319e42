package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every key Load reads so the host environment does not leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "DB_PATH", "CORS_ALLOWED_ORIGINS", "LOG_FILE",
		"POKEMON_TCG_API_KEY", "POKEMON_TCG_BASE_URL", "LOOKUP_TIMEOUT",
		"LOOKUP_RATE_PER_SEC", "LOOKUP_CACHE_SIZE", "LOOKUP_CACHE_TTL",
		"OVERLAY_SESSION_TTL", "OVERLAY_MAX_SESSIONS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Path != "./pokeprice.db" {
		t.Errorf("unexpected server defaults %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.LookupTimeout() != 30*time.Second {
		t.Errorf("timeout = %s", cfg.LookupTimeout())
	}
	if cfg.LookupCacheTTL() != 24*time.Hour {
		t.Errorf("cache ttl = %s", cfg.LookupCacheTTL())
	}
	if cfg.SessionTTL() != 30*time.Minute || cfg.Overlay.MaxSessions != 1000 {
		t.Errorf("unexpected overlay defaults %+v", cfg.Overlay)
	}
	if cfg.Lookup.APIKey != "" {
		t.Error("api key should be optional")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "chrome-extension://abc, http://localhost:3000 ,")
	t.Setenv("POKEMON_TCG_API_KEY", "secret")
	t.Setenv("LOOKUP_TIMEOUT", "5s")
	t.Setenv("LOOKUP_RATE_PER_SEC", "0.5")
	t.Setenv("OVERLAY_MAX_SESSIONS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Lookup.APIKey != "secret" {
		t.Errorf("env not applied: %+v %+v", cfg.Server, cfg.Lookup)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 2 || cfg.Server.CORSAllowedOrigins[0] != "chrome-extension://abc" {
		t.Errorf("origins = %v", cfg.Server.CORSAllowedOrigins)
	}
	if cfg.LookupTimeout() != 5*time.Second || cfg.Lookup.RatePerSecond != 0.5 {
		t.Errorf("lookup overrides not applied: %+v", cfg.Lookup)
	}
	if cfg.Overlay.MaxSessions != 1000 {
		t.Errorf("invalid int should keep default, got %d", cfg.Overlay.MaxSessions)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pokeprice.toml")
	content := `
[server]
port = "7000"

[lookup]
cache_size = 64
cache_ttl = "1h"

[overlay]
session_ttl = "10m"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7001" {
		t.Errorf("environment should win over file, port = %s", cfg.Server.Port)
	}
	if cfg.Lookup.CacheSize != 64 || cfg.LookupCacheTTL() != time.Hour || cfg.SessionTTL() != 10*time.Minute {
		t.Errorf("file values not applied: %+v %+v", cfg.Lookup, cfg.Overlay)
	}
	if cfg.Lookup.BaseURL != "https://api.pokemontcg.io/v2" {
		t.Errorf("defaults should survive a partial file, base = %s", cfg.Lookup.BaseURL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing file", map[string]string{"CONFIG_FILE": "/does/not/exist.toml"}},
		{"bad duration", map[string]string{"LOOKUP_CACHE_TTL": "tomorrow"}},
		{"zero duration", map[string]string{"OVERLAY_SESSION_TTL": "0s"}},
		{"negative rate", map[string]string{"LOOKUP_RATE_PER_SEC": "-1"}},
		{"zero cache", map[string]string{"LOOKUP_CACHE_SIZE": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_BadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}
