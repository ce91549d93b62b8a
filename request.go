package tweetsift

import (
	"context"
	"fmt"
	"log/slog"
)

// doGET executes one paced GET against endpoint. Failures are not retried:
// transport errors, HTTP errors and rate limiting are returned to the caller.
func (c *Client) doGET(ctx context.Context, endpoint, url string) ([]byte, error) {
	if c.limits.IsRateLimited(endpoint) {
		c.recordAPICall(endpoint, false, true)
		return nil, &RateLimitError{Endpoint: endpoint, Until: c.limits.AvailableAt(endpoint)}
	}
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body, respHdrs, status, err := c.http.DoWithHeaderOrder("GET", url, apiHeaders(c.cfg.BearerToken, c.cfg.UserAgent), nil, apiHeaderOrder)
	if err != nil {
		c.recordAPICall(endpoint, false, false)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	switch errClass := classifyError(status, body); errClass {
	case errNone:
		c.recordAPICall(endpoint, true, false)
		return body, nil

	case errRateLimited, errUsageCapped:
		c.recordAPICall(endpoint, false, true)
		until := parseRateLimitReset(respHdrs["x-rate-limit-reset"])
		c.limits.MarkRateLimited(endpoint, until)
		slog.Warn("search rate limited",
			slog.String("endpoint", endpoint),
			slog.Time("until", until),
			slog.Bool("capped", errClass == errUsageCapped))
		return nil, &RateLimitError{Endpoint: endpoint, Until: until, Capped: errClass == errUsageCapped}

	default:
		c.recordAPICall(endpoint, false, false)
		slog.Warn("search non-2xx",
			slog.String("endpoint", endpoint),
			slog.Int("status", status),
			slog.String("body", truncateBytes(body, 500)))
		return nil, newAPIError(endpoint, status, body)
	}
}
