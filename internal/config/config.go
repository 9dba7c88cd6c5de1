// Package config loads application configuration from the environment, with
// a best-effort .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset or unparsable.
const (
	DefaultCacheTTL     = time.Hour
	DefaultCacheMaxSize = 1000
)

// Config holds everything the application reads from the environment.
type Config struct {
	// Token authenticates against the GitHub API (GITHUB_TOKEN).
	Token string
	// CacheTTL is how long aggregated results stay valid (CACHE_TTL, seconds).
	CacheTTL time.Duration
	// CacheMaxSize bounds each named cache (CACHE_MAX_SIZE).
	CacheMaxSize int
	// CacheEnabled disables caching entirely when false (CACHE_ENABLED).
	CacheEnabled bool
	// Whitelist restricts which usernames may be queried
	// (WHITELIST_USERNAMES, comma-separated). Empty means everyone.
	Whitelist map[string]struct{}
}

// Load reads a .env file if present, then builds a Config from the
// environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Token:        os.Getenv("GITHUB_TOKEN"),
		CacheTTL:     DefaultCacheTTL,
		CacheMaxSize: DefaultCacheMaxSize,
		CacheEnabled: true,
		Whitelist:    make(map[string]struct{}),
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTL = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("CACHE_MAX_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.CacheMaxSize = size
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = v == "true"
	}
	if v := os.Getenv("WHITELIST_USERNAMES"); v != "" {
		for _, name := range strings.Split(v, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				cfg.Whitelist[name] = struct{}{}
			}
		}
	}

	return cfg
}

// IsUsernameAllowed reports whether username may be queried. An empty
// whitelist allows everyone; otherwise membership is case-insensitive.
func (c *Config) IsUsernameAllowed(username string) bool {
	if len(c.Whitelist) == 0 {
		return true
	}
	_, ok := c.Whitelist[strings.ToLower(username)]
	return ok
}
