package tweetsift

import (
	"fmt"
	"io"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
	"golang.org/x/time/rate"
)

// doer is the transport used by Client. *stealth.BrowserClient implements it;
// tests substitute a canned transport.
type doer interface {
	DoWithHeaderOrder(method, urlStr string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

// Client is a v2 full-archive search client.
type Client struct {
	http   doer
	pacer  *rate.Limiter
	limits *ratelimit.Limiter
	cfg    ClientConfig
}

// NewClient validates cfg and creates a fully-wired search client.
// A missing bearer token is reported as a *ConfigError.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.defaults()

	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(apiHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return newClient(cfg, bc), nil
}

func newClient(cfg ClientConfig, d doer) *Client {
	return &Client{
		http:   d,
		pacer:  rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		limits: ratelimit.NewLimiter(cfg.RateLimit),
		cfg:    cfg,
	}
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}
