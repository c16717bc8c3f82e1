// Package providers implements lookup.Provider against the external
// catalogs used to resolve barcodes.
package providers

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/ratelimit"
)

// maxErrorBody bounds how much of a failed response is kept as detail.
const maxErrorBody = 512

// HTTPDoer is the subset of *http.Client the providers use.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// client holds what every HTTP provider needs.
type client struct {
	name       string
	baseURL    string
	httpClient HTTPDoer
	limiter    *ratelimit.Limiter
	header     http.Header
}

// Option configures a provider.
type Option func(*client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithBaseURL overrides the provider's API root.
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithRateLimiter sets the limiter waited on before every request. Pass
// nil to disable limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(c *client) {
		c.limiter = limiter
	}
}

func newClient(name, baseURL string, opts []Option) client {
	c := client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		header:     make(http.Header),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// getJSON performs a GET and decodes a 2xx body into target. Every failure
// comes back as a *errors.ProviderError; 429 and 503 also wrap a
// *errors.RateLimitError.
func (c *client) getJSON(ctx context.Context, endpoint string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.NewProviderError(c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.NewProviderError(c.name, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	// Copied verbatim so non-canonical names like "user_key" keep their case.
	for key, values := range c.header {
		req.Header[key] = append(req.Header[key], values...)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewProviderError(c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		provErr := errors.NewProviderStatusError(c.name, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			provErr.Err = errors.NewRateLimitErrorWithRetry(c.name+" rate limit exceeded", retryAfter(resp))
		}
		return provErr
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.NewProviderError(c.name, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// isStatus reports whether err is a ProviderError for the given HTTP status.
func isStatus(err error, status int) bool {
	var provErr *errors.ProviderError
	return stdErrors.As(err, &provErr) && provErr.StatusCode == status
}

func stringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
