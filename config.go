package tweetsift

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBearerToken = "BEARER"
	EnvBaseURL     = "TWEETSIFT_BASE_URL"
	EnvProxy       = "TWEETSIFT_PROXY"
)

// ClientConfig holds all configuration for the search client.
type ClientConfig struct {
	// BearerToken is the app-only OAuth 2.0 token for the v2 API.
	BearerToken string

	// BaseURL overrides the API root. Default: https://api.twitter.com
	BaseURL string

	// Proxy is an optional proxy URL for all requests.
	Proxy string

	// UserAgent is sent with every request.
	UserAgent string

	// RequestInterval is the minimum spacing between two search requests.
	// The full-archive endpoint allows one request per second.
	RequestInterval time.Duration

	// RateLimit configures the per-endpoint 429 bookkeeping.
	RateLimit ratelimit.Config

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the operation name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)
}

// ConfigFromEnv builds a ClientConfig from the process environment.
func ConfigFromEnv() ClientConfig {
	return ClientConfig{
		BearerToken: strings.TrimSpace(os.Getenv(EnvBearerToken)),
		BaseURL:     os.Getenv(EnvBaseURL),
		Proxy:       os.Getenv(EnvProxy),
	}
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = apiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestInterval == 0 {
		cfg.RequestInterval = time.Second
	}
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig
	}
}

// Validate checks the configuration and returns a *ConfigError on failure.
func (cfg ClientConfig) Validate() error {
	if strings.TrimSpace(cfg.BearerToken) == "" {
		return &ConfigError{Field: EnvBearerToken, Err: ErrMissingBearerToken}
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ConfigError{Field: "BaseURL", Reason: "must be an absolute URL, got " + cfg.BaseURL}
		}
	}
	if cfg.RequestInterval < 0 {
		return &ConfigError{Field: "RequestInterval", Reason: "must not be negative"}
	}
	return nil
}
