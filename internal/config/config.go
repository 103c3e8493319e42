// Package config loads server settings from an optional .env file, an
// optional TOML file and the environment, in increasing precedence.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all server settings
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Lookup   LookupConfig   `toml:"lookup"`
	Overlay  OverlayConfig  `toml:"overlay"`
}

// ServerConfig contains HTTP and logging settings
type ServerConfig struct {
	Port               string   `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	LogFile            string   `toml:"log_file"` // empty logs to stderr only
}

// DatabaseConfig contains the lookup cache store settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LookupConfig contains Pokemon TCG API settings
type LookupConfig struct {
	BaseURL       string  `toml:"base_url"`
	APIKey        string  `toml:"api_key"`
	Timeout       string  `toml:"timeout"`         // e.g. "30s"
	RatePerSecond float64 `toml:"rate_per_second"` // 0 disables throttling
	CacheSize     int     `toml:"cache_size"`
	CacheTTL      string  `toml:"cache_ttl"` // e.g. "24h"
}

// OverlayConfig contains overlay session settings
type OverlayConfig struct {
	SessionTTL  string `toml:"session_ttl"`
	MaxSessions int    `toml:"max_sessions"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "8080",
			CORSAllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Path: "./pokeprice.db",
		},
		Lookup: LookupConfig{
			BaseURL:       "https://api.pokemontcg.io/v2",
			Timeout:       "30s",
			RatePerSecond: 5,
			CacheSize:     256,
			CacheTTL:      "24h",
		},
		Overlay: OverlayConfig{
			SessionTTL:  "30m",
			MaxSessions: 1000,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// CONFIG_FILE if set, then environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Config: failed to load .env file: %v", err)
	}

	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	log.Printf("Config: loaded %s", path)
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.CORSAllowedOrigins = splitList(origins)
	}
	c.Server.LogFile = getEnvOrDefault("LOG_FILE", c.Server.LogFile)

	c.Database.Path = getEnvOrDefault("DB_PATH", c.Database.Path)

	c.Lookup.BaseURL = getEnvOrDefault("POKEMON_TCG_BASE_URL", c.Lookup.BaseURL)
	c.Lookup.APIKey = getEnvOrDefault("POKEMON_TCG_API_KEY", c.Lookup.APIKey)
	c.Lookup.Timeout = getEnvOrDefault("LOOKUP_TIMEOUT", c.Lookup.Timeout)
	c.Lookup.RatePerSecond = getEnvFloatOrDefault("LOOKUP_RATE_PER_SEC", c.Lookup.RatePerSecond)
	c.Lookup.CacheSize = getEnvIntOrDefault("LOOKUP_CACHE_SIZE", c.Lookup.CacheSize)
	c.Lookup.CacheTTL = getEnvOrDefault("LOOKUP_CACHE_TTL", c.Lookup.CacheTTL)

	c.Overlay.SessionTTL = getEnvOrDefault("OVERLAY_SESSION_TTL", c.Overlay.SessionTTL)
	c.Overlay.MaxSessions = getEnvIntOrDefault("OVERLAY_MAX_SESSIONS", c.Overlay.MaxSessions)
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Lookup.BaseURL == "" {
		return fmt.Errorf("lookup base url is required")
	}
	for name, v := range map[string]string{
		"lookup timeout":      c.Lookup.Timeout,
		"lookup cache ttl":    c.Lookup.CacheTTL,
		"overlay session ttl": c.Overlay.SessionTTL,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, v)
		}
	}
	if c.Lookup.RatePerSecond < 0 {
		return fmt.Errorf("lookup rate must not be negative, got %v", c.Lookup.RatePerSecond)
	}
	if c.Lookup.CacheSize <= 0 {
		return fmt.Errorf("lookup cache size must be positive, got %d", c.Lookup.CacheSize)
	}
	if c.Overlay.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive, got %d", c.Overlay.MaxSessions)
	}
	return nil
}

// LookupTimeout returns the HTTP client timeout for lookups
func (c *Config) LookupTimeout() time.Duration {
	return mustDuration(c.Lookup.Timeout)
}

// LookupCacheTTL returns how long a lookup result stays fresh
func (c *Config) LookupCacheTTL() time.Duration {
	return mustDuration(c.Lookup.CacheTTL)
}

// SessionTTL returns the idle lifetime of an overlay session
func (c *Config) SessionTTL() time.Duration {
	return mustDuration(c.Overlay.SessionTTL)
}

// mustDuration parses a duration already checked by Validate
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		log.Printf("Config: ignoring invalid %s=%q", key, val)
	}
	return defaultVal
}

func getEnvFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Printf("Config: ignoring invalid %s=%q", key, val)
	}
	return defaultVal
}
