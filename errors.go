package tweetsift

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrRateLimited is wrapped by every *RateLimitError.
	ErrRateLimited = errors.New("rate limited")

	// ErrMissingBearerToken is wrapped by the *ConfigError returned when no
	// bearer token is configured.
	ErrMissingBearerToken = errors.New("missing bearer token")
)

// errorClass categorizes v2 API error responses for targeted handling.
type errorClass int

const (
	errNone           errorClass = iota
	errInvalidRequest            // 400: malformed query or parameters
	errUnauthorized              // 401: bad or revoked bearer token
	errForbidden                 // 403: app not enrolled for the endpoint
	errNotFound                  // 404
	errRateLimited               // 429: request window exhausted
	errUsageCapped               // 429: monthly tweet cap reached
	errServer                    // 5xx
)

func (c errorClass) String() string {
	switch c {
	case errNone:
		return "none"
	case errInvalidRequest:
		return "invalid request"
	case errUnauthorized:
		return "unauthorized"
	case errForbidden:
		return "forbidden"
	case errNotFound:
		return "not found"
	case errRateLimited:
		return "rate limited"
	case errUsageCapped:
		return "usage capped"
	case errServer:
		return "server error"
	}
	return "class " + strconv.Itoa(int(c))
}

// problem is the RFC 7807 style error body returned by the v2 API.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
	Status int    `json:"status"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func parseProblem(body []byte) problem {
	var p problem
	_ = json.Unmarshal(body, &p)
	if p.Detail == "" && len(p.Errors) > 0 {
		p.Detail = p.Errors[0].Message
	}
	return p
}

// classifyError maps an HTTP status and error body to an errorClass.
func classifyError(status int, body []byte) errorClass {
	switch {
	case status >= 200 && status < 300:
		return errNone
	case status == 400:
		return errInvalidRequest
	case status == 401:
		return errUnauthorized
	case status == 403:
		return errForbidden
	case status == 404:
		return errNotFound
	case status == 429:
		if strings.HasSuffix(parseProblem(body).Type, "/usage-capped") {
			return errUsageCapped
		}
		return errRateLimited
	case status >= 500:
		return errServer
	}
	return errInvalidRequest
}

// APIError is a non-2xx response from the search endpoint.
type APIError struct {
	Endpoint string
	Status   int
	Title    string
	Detail   string
	Type     string

	class errorClass
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	p := parseProblem(body)
	if p.Title == "" {
		p.Title = truncateBytes(body, 200)
	}
	return &APIError{
		Endpoint: endpoint,
		Status:   status,
		Title:    p.Title,
		Detail:   p.Detail,
		Type:     p.Type,
		class:    classifyError(status, body),
	}
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s HTTP %d (%s): %s", e.Endpoint, e.Status, e.class, e.Title)
	if e.Detail != "" && e.Detail != e.Title {
		msg += ": " + e.Detail
	}
	return msg
}

// Unauthorized reports whether the bearer token was rejected.
func (e *APIError) Unauthorized() bool {
	return e.class == errUnauthorized || e.class == errForbidden
}

// RateLimitError is returned when the endpoint answered 429 or is still inside
// a previously reported rate-limit window.
type RateLimitError struct {
	Endpoint string
	Until    time.Time
	Capped   bool
}

func (e *RateLimitError) Error() string {
	if e.Capped {
		return fmt.Sprintf("%s: usage cap reached", e.Endpoint)
	}
	return fmt.Sprintf("%s: rate limited until %s", e.Endpoint, e.Until.UTC().Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// ConfigError reports an invalid or missing configuration value. It is raised
// at startup, before any request is made.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Reason == "" && e.Err != nil {
		return fmt.Sprintf("config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// parseRateLimitReset parses the x-rate-limit-reset unix timestamp header.
// Falls back to 15 minutes from now if missing or invalid.
func parseRateLimitReset(v string) time.Time {
	if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(ts, 0)
	}
	return time.Now().Add(15 * time.Minute)
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
