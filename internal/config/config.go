// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the bot and its web server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3000".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of origins allowed to call the Read API.
	// Defaults to ["*"]. Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SlackBotToken (xoxb-) authenticates Web API calls. Required.
	SlackBotToken string

	// SlackAppToken (xapp-) opens the Socket Mode connection. Required.
	SlackAppToken string

	// MapboxToken signs geocoding requests, static map URLs, and the
	// interactive map page. Required.
	MapboxToken string

	// PublicMapURL is the externally reachable address of the interactive
	// map, used in chat links. Optional; see MapURL.
	PublicMapURL string

	// GeocodeTimeout bounds one geocoding lookup including its retry.
	// Defaults to 5s.
	GeocodeTimeout time.Duration

	// RateLimitPerMinute caps Read API requests per client IP. Defaults to 120.
	RateLimitPerMinute int

	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers. Defaults to false.
	TrustProxyHeaders bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first optional variable that fails to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "3000"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "*")),
		PublicMapURL: strings.TrimRight(os.Getenv("PUBLIC_MAP_URL"), "/"),
	}

	var missing []string
	for _, req := range []struct {
		key string
		dst *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"SLACK_BOT_TOKEN", &cfg.SlackBotToken},
		{"SLACK_APP_TOKEN", &cfg.SlackAppToken},
		{"MAPBOX_TOKEN", &cfg.MapboxToken},
	} {
		*req.dst = os.Getenv(req.key)
		if *req.dst == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	timeout, err := time.ParseDuration(getEnv("GEOCODE_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("GEOCODE_TIMEOUT: %w", err)
	}
	cfg.GeocodeTimeout = timeout

	limit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil || limit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE: must be a positive integer, got %q", os.Getenv("RATE_LIMIT_PER_MINUTE"))
	}
	cfg.RateLimitPerMinute = limit

	trust, err := strconv.ParseBool(getEnv("TRUST_PROXY_HEADERS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("TRUST_PROXY_HEADERS: %w", err)
	}
	cfg.TrustProxyHeaders = trust

	return cfg, nil
}

// MapURL returns the link users follow to the interactive map:
// PublicMapURL when set, otherwise the local listener.
func (c Config) MapURL() string {
	if c.PublicMapURL != "" {
		return c.PublicMapURL
	}
	return "http://localhost:" + c.Port
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
