package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxBodySize guards against runaway pages
	maxBodySize = 8 << 20
)

// RetryPolicy bounds how often an idempotent request is attempted
type RetryPolicy struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy is 3 attempts with exponential backoff 2s, 4s, capped at 8s
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     8 * time.Second,
	}
}

// SingleAttempt is for sources that are rarely up rather than occasionally flaky
func SingleAttempt() RetryPolicy {
	return RetryPolicy{Attempts: 1}
}

// backoff returns the wait before the given retry (1-based)
func (p RetryPolicy) backoff(attempt int) time.Duration {
	if attempt < 1 || p.InitialBackoff <= 0 {
		return 0
	}

	d := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}

	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// ClientOptions configures the HTTP client an adapter owns
type ClientOptions struct {
	Timeout      time.Duration
	UserAgent    string
	RequestDelay time.Duration
	Retry        RetryPolicy
	Headers      map[string]string
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d from %s", domain.ErrSourceUnavailable, e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrSourceUnavailable
}

// retryable reports whether another attempt may succeed
func (e *StatusError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client handles HTTP communication for one adapter invocation
type Client struct {
	httpClient  *http.Client
	userAgent   string
	headers     map[string]string
	retry       RetryPolicy
	rateLimiter *rate.Limiter
	log         zerolog.Logger
}

// NewClient creates a client with its own connection pool and rate limiter
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	retry := opts.Retry
	if retry.Attempts <= 0 {
		retry.Attempts = 1
	}

	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:   userAgent,
		headers:     opts.Headers,
		retry:       retry,
		rateLimiter: rate.NewLimiter(limit, 1),
		log:         logger.With("sources.client"),
	}
}

// GetPage fetches a document body with retries
func (c *Client) GetPage(ctx context.Context, rawURL string) ([]byte, error) {
	return c.withRetry(ctx, rawURL, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, rawURL, nil, map[string]string{
			"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		})
	})
}

// GetJSON fetches a JSON document with retries and decodes it into out.
// Decoding is part of each attempt.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, out any) error {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	merged := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		merged[k] = v
	}

	// a malformed body is retried like a failed request
	_, err := c.withRetry(ctx, rawURL, func() ([]byte, error) {
		body, err := c.do(ctx, http.MethodGet, rawURL, nil, merged)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return body, nil
	})
	return err
}

// PostJSON sends a JSON body once and decodes the JSON answer into out
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload any, headers map[string]string, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	merged := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for k, v := range headers {
		merged[k] = v
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, rawURL, data, merged)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// withRetry runs fetch up to retry.Attempts times, waiting on the rate limiter
// before each attempt and backing off between them
func (c *Client) withRetry(ctx context.Context, rawURL string, fetch func() ([]byte, error)) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := fetch()
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.retry.Attempts {
			break
		}

		wait := c.retry.backoff(attempt)
		c.log.Debug().Str("url", rawURL).Int("attempt", attempt).Dur("backoff", wait).Err(err).Msg("request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

// do executes a single HTTP request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte, headers map[string]string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "az,en;q=0.9")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	return data, nil
}
