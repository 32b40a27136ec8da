package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	xhttp "MarketBoard/pkg/http"
)

// FailureKind classifies why a page fetch failed.
type FailureKind string

const (
	FailTimeout FailureKind = "timeout"
	FailNetwork FailureKind = "network"
	FailStatus  FailureKind = "status"
)

// FetchError carries the failure class alongside the underlying cause so
// callers can decide between retrying and falling back to cached data.
type FetchError struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth a retry within the same
// refresh cycle. Client errors (4xx) are not.
func (e *FetchError) Retryable() bool {
	if e.Kind == FailStatus {
		return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// Fetcher retrieves raw markup for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// defaultHeaders make requests look like a desktop browser. Several of the
// scraped providers serve a bot-detection page to unknown user agents.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,pt-BR;q=0.8",
	"Cache-Control":   "no-cache",
}

// HTTPFetcher is the production Fetcher on net/http.
type HTTPFetcher struct {
	client  *xhttp.Client
	timeout time.Duration
	maxBody int64
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// WithClient replaces the underlying client, mainly for tests.
func WithClient(c *xhttp.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithMaxBody caps the response body size in bytes.
func WithMaxBody(n int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBody = n
	}
}

// NewHTTPFetcher creates an HTTPFetcher with sane defaults.
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout: 15 * time.Second,
		maxBody: 8 << 20,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = xhttp.NewClient(xhttp.WithTimeout(f.timeout))
	}
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	merged := make(map[string]string, len(defaultHeaders)+len(headers))
	for k, v := range defaultHeaders {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}

	resp, err := f.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     url,
		Headers: merged,
	})
	if err != nil {
		return nil, &FetchError{Kind: classifyTransport(err), URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Kind: FailStatus, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, &FetchError{Kind: classifyTransport(err), URL: url, Err: err}
	}
	return body, nil
}

func classifyTransport(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailTimeout
	}
	return FailNetwork
}
