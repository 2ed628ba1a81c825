package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Harvest   HarvestConfig
	Engine    EngineConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// SiteConfig describes the target site. The defaults match the current
// markup; a YAML profile (see LoadProfile) can override them when the site
// changes.
type SiteConfig struct {
	// BaseURL is the site root.
	BaseURL string `yaml:"base_url"`

	// SeedPath is the index page path template with one %s for the letter.
	SeedPath string `yaml:"seed_path"`

	// Letters are the index pages to crawl. Empty means a..z.
	Letters []string `yaml:"letters"`

	// IndexMarkerSelector matches the info icon flagging each airport row.
	IndexMarkerSelector string `yaml:"index_marker_selector"`

	// DetailFieldSelector matches the per-field text nodes of a detail page.
	DetailFieldSelector string `yaml:"detail_field_selector"`

	// VisitWebsiteLabel is the label text of the website field.
	VisitWebsiteLabel string `yaml:"visit_website_label"`
}

// HarvestConfig controls crawl behavior.
type HarvestConfig struct {
	// Concurrency caps parallel page fetches at each fan-out level.
	Concurrency int // default: 8
}

// EngineConfig controls the HTTP transport.
type EngineConfig struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration // default: 30s

	// Retries is the retry budget for transient upstream failures.
	Retries int // default: 3

	// RequestsPerSecond throttles outgoing requests. 0 disables.
	RequestsPerSecond float64 // default: 0

	// ChromeTLS dials TLS with a Chrome fingerprint.
	ChromeTLS bool // default: true

	// UserAgent overrides the default browser-like User-Agent.
	UserAgent string
}

// CacheConfig controls the fetched-page cache.
type CacheConfig struct {
	// Enabled toggles the read-through page cache.
	Enabled bool // default: false for one-shot runs, set true for serve

	// MaxEntries is the maximum number of cached pages.
	MaxEntries int // default: 2000

	// TTL is how long a cached page stays valid.
	TTL time.Duration // default: 1h
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key API rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("AEROHARVEST_HOST", "0.0.0.0"),
			Port: envIntOr("AEROHARVEST_PORT", 8080),
			Mode: envOr("AEROHARVEST_MODE", "release"),
		},
		Site: SiteConfig{
			BaseURL:             envOr("AEROHARVEST_BASE_URL", "https://www.world-airport-codes.com"),
			SeedPath:            envOr("AEROHARVEST_SEED_PATH", "/alphabetical/airport-code/%s.html"),
			Letters:             envSliceOr("AEROHARVEST_LETTERS", nil),
			IndexMarkerSelector: envOr("AEROHARVEST_INDEX_MARKER", `img[src='/images/icon-info.gif']`),
			DetailFieldSelector: envOr("AEROHARVEST_DETAIL_FIELD", `.airportdetails span.detail`),
			VisitWebsiteLabel:   envOr("AEROHARVEST_WEBSITE_LABEL", ": Visit Website (?)"),
		},
		Harvest: HarvestConfig{
			Concurrency: envIntOr("AEROHARVEST_CONCURRENCY", 8),
		},
		Engine: EngineConfig{
			Timeout:           envDurationOr("AEROHARVEST_TIMEOUT", 30*time.Second),
			Retries:           envIntOr("AEROHARVEST_RETRIES", 3),
			RequestsPerSecond: envFloatOr("AEROHARVEST_RPS", 0),
			ChromeTLS:         envBoolOr("AEROHARVEST_CHROME_TLS", true),
			UserAgent:         os.Getenv("AEROHARVEST_USER_AGENT"),
		},
		Cache: CacheConfig{
			Enabled:    envBoolOr("AEROHARVEST_CACHE_ENABLED", false),
			MaxEntries: envIntOr("AEROHARVEST_CACHE_MAX_ENTRIES", 2000),
			TTL:        envDurationOr("AEROHARVEST_CACHE_TTL", time.Hour),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("AEROHARVEST_AUTH_ENABLED", true),
			APIKeys: envSliceOr("AEROHARVEST_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("AEROHARVEST_RATE_RPS", 5.0),
			Burst:             envIntOr("AEROHARVEST_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("AEROHARVEST_LOG_LEVEL", "info"),
			Format: envOr("AEROHARVEST_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
