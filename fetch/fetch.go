// Package fetch implements the HTTP client used to retrieve structure
// documents from remote services: single bounded-timeout lookups and a
// retrying POST with exponential backoff and jitter for flaky APIs.
package fetch

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"net/http"
	"time"
)

const (
	// DefaultMaxAttempts bounds the retry loop in PostRetry.
	DefaultMaxAttempts = 5

	// DefaultBaseDelay is the backoff delay before the second attempt.
	DefaultBaseDelay = 1500 * time.Millisecond
)

// Doer performs a single HTTP request. *http.Client satisfies it; tests
// substitute a scripted transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SleepFunc blocks for the given duration or until the context is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client issues requests against remote structure services.
type Client struct {
	doer  Doer
	sleep SleepFunc
	rand  func() float64
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the underlying HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithSleep replaces the backoff sleep function.
func WithSleep(s SleepFunc) Option {
	return func(c *Client) { c.sleep = s }
}

// NewClient returns a Client backed by http.DefaultClient. Per-request
// timeouts are applied through the request context, not a client-wide one.
func NewClient(opts ...Option) *Client {
	c := &Client{
		doer:  http.DefaultClient,
		sleep: sleepContext,
		rand:  rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a single GET with a bounded timeout. A non-2xx status is not
// an error here: callers walking a candidate list inspect the status
// themselves. err is non-nil only for transport-level failures.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (body []byte, status int, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "text/plain")

	res, err := c.doer.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}
	return body, res.StatusCode, nil
}

// RetryOptions bounds a PostRetry call.
type RetryOptions struct {
	MaxAttempts int           // defaults to DefaultMaxAttempts
	BaseDelay   time.Duration // defaults to DefaultBaseDelay
	Timeout     time.Duration // per-attempt timeout
	Prefix      string        // required prefix of the stripped response body
	Header      http.Header   // extra request headers
}

// PostRetry POSTs payload until it gets an acceptable response or gives up.
//
// Each attempt k = 1..MaxAttempts ends in one of four ways:
//   - 2xx status and the stripped body starts with Prefix: return the body.
//   - transient failure (429, 500, 502, 503, 504, or a transport error):
//     sleep BaseDelay x 2^(k-1) plus jitter in [0, 0.25 x delay], try again.
//   - any other status: fail immediately with *FatalError.
//   - 2xx status with a malformed body: try again without backing off.
//
// A transient failure on the last attempt fails with *ExhaustedError.
func (c *Client) PostRetry(ctx context.Context, url string, payload []byte, opts RetryOptions) ([]byte, error) {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	base := opts.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}

	var lastStatus int
	var lastErr error
	for k := 1; k <= attempts; k++ {
		body, status, err := c.post(ctx, url, payload, opts)
		if err == nil && status >= 200 && status < 300 {
			if ValidDocument(body, opts.Prefix) {
				return body, nil
			}
			// Success status but not a document. Seen when the service
			// returns an HTML error page; worth another attempt.
			lastStatus, lastErr = status, nil
			continue
		}

		transient := err != nil || IsTransientStatus(status)
		if !transient {
			return nil, &FatalError{Status: status, Body: body}
		}

		lastStatus, lastErr = status, err
		if k == attempts {
			break
		}
		if err := c.backoff(ctx, k, base); err != nil {
			return nil, err
		}
	}

	return nil, &ExhaustedError{Attempts: attempts, LastStatus: lastStatus, LastErr: lastErr}
}

func (c *Client) post(ctx context.Context, url string, payload []byte, opts RetryOptions) ([]byte, int, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	res, err := c.doer.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}
	return body, res.StatusCode, nil
}

// backoff sleeps before attempt k+1: base x 2^(k-1) plus uniform jitter up
// to a quarter of the delay.
func (c *Client) backoff(ctx context.Context, k int, base time.Duration) error {
	delay := base << (k - 1)
	delay += time.Duration(c.rand() * 0.25 * float64(delay))
	return c.sleep(ctx, delay)
}

// IsTransientStatus returns true for statuses expected to clear on retry:
// rate limiting and temporary server-side failures.
func IsTransientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ValidDocument reports whether the stripped body starts with the expected
// header token. An empty prefix accepts any non-empty body.
func ValidDocument(body []byte, prefix string) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return false
	}
	return bytes.HasPrefix(trimmed, []byte(prefix))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
