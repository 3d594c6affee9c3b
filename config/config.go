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
	Browser   BrowserConfig
	Scrape    ScrapeConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance used for render passes.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// DefaultProxy is the proxy URL for both HTTP fetches and the browser.
	DefaultProxy string

	// Stealth enables anti-bot-detection evasions on every render pass.
	Stealth bool // default: false
}

// ScrapeConfig controls per-request timing.
type ScrapeConfig struct {
	// FetchTimeout is the deadline for the static HTTP fetch.
	FetchTimeout time.Duration // default: 30s

	// NavTimeout is the deadline for the primary navigation attempt
	// (waits for network idle).
	NavTimeout time.Duration // default: 15s

	// NavRetryTimeout is the deadline for the fallback navigation attempt
	// (waits only for DOMContentLoaded).
	NavRetryTimeout time.Duration // default: 10s

	// SettleDelay is the fixed pause after a successful navigation before
	// interactions begin.
	SettleDelay time.Duration // default: 1s

	// RequestTimeout is the hard deadline for an entire scrape
	// (static pass + render pass + merge).
	RequestTimeout time.Duration // default: 120s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication. The API is open by default.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client.
	Burst int // default: 10
}

// CacheConfig controls the scrape result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000
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
			Host: envOr("PAGELENS_HOST", "0.0.0.0"),
			Port: envIntOr("PAGELENS_PORT", 8080),
			Mode: envOr("PAGELENS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("PAGELENS_HEADLESS", true),
			NoSandbox:    envBoolOr("PAGELENS_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("PAGELENS_BROWSER_BIN"),
			DefaultProxy: os.Getenv("PAGELENS_PROXY"),
			Stealth:      envBoolOr("PAGELENS_STEALTH", false),
		},
		Scrape: ScrapeConfig{
			FetchTimeout:    envDurationOr("PAGELENS_FETCH_TIMEOUT", 30*time.Second),
			NavTimeout:      envDurationOr("PAGELENS_NAV_TIMEOUT", 15*time.Second),
			NavRetryTimeout: envDurationOr("PAGELENS_NAV_RETRY_TIMEOUT", 10*time.Second),
			SettleDelay:     envDurationOr("PAGELENS_SETTLE_DELAY", time.Second),
			RequestTimeout:  envDurationOr("PAGELENS_REQUEST_TIMEOUT", 120*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PAGELENS_AUTH_ENABLED", false),
			APIKeys: envSliceOr("PAGELENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PAGELENS_RATE_RPS", 5.0),
			Burst:             envIntOr("PAGELENS_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("PAGELENS_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("PAGELENS_LOG_LEVEL", "info"),
			Format: envOr("PAGELENS_LOG_FORMAT", "json"),
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
