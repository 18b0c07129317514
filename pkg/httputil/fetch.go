package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/poatree/pkg/buildinfo"
	"github.com/matzehuels/poatree/pkg/errors"
)

const (
	// DefaultMaxBytes bounds the size of a fetched graph.
	DefaultMaxBytes = 64 << 20

	httpTimeout = 30 * time.Second
)

// Fetcher downloads graph documents with retries for transient failures.
type Fetcher struct {
	client   *http.Client
	retry    func(context.Context, func() error) error
	maxBytes int64
}

// FetchOption configures a Fetcher.
type FetchOption func(*Fetcher)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) FetchOption {
	return func(f *Fetcher) { f.client = c }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) FetchOption {
	return func(f *Fetcher) {
		f.retry = func(ctx context.Context, fn func() error) error {
			return Retry(ctx, attempts, delay, fn)
		}
	}
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int64) FetchOption {
	return func(f *Fetcher) { f.maxBytes = n }
}

// NewFetcher creates a Fetcher with a 30 second timeout that retries
// transient failures with [RetryWithBackoff].
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: httpTimeout},
		retry:    RetryWithBackoff,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Get downloads rawURL and returns its body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidURL, "not an http(s) URL: %q", rawURL)
	}
	var data []byte
	err := f.retry(ctx, func() error {
		var err error
		data, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "build request")
	}
	req.Header.Set("User-Agent", "poatree/"+buildinfo.Version)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "get %s", rawURL)}
	}
	defer resp.Body.Close()

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", rawURL, f.maxBytes)
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)
	}
}
