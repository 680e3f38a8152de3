// Package httpclient builds the HTTP client shared by the upstream news
// providers.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// sensitiveParams are query parameters whose values never appear in
// errors or logs.
var sensitiveParams = []string{"apikey", "api_key", "key", "token", "access_token"}

type Config struct {
	// Timeout bounds a whole upstream call, body included. A context
	// deadline can still cut it shorter.
	Timeout time.Duration

	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConnsPerHost int
}

func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		DialTimeout:         5 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}
}

func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshake,
			ResponseHeaderTimeout: cfg.ResponseHeader,
		},
		Timeout: cfg.Timeout,
	}
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

// Fetcher issues GET requests under a fixed per-call timeout and returns
// the body of successful responses.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

type FetcherOption func(*Fetcher)

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = client }
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	cfg := DefaultConfig()
	f := &Fetcher{
		client:  New(cfg),
		timeout: cfg.Timeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get fetches rawURL and returns the response body. Non-2xx responses
// yield a *StatusError.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "newsmap/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(req.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: redact(req.URL), Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

// redact renders u with userinfo and credential query values masked.
func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	for k := range q {
		for _, p := range sensitiveParams {
			if strings.EqualFold(k, p) {
				q.Set(k, "REDACTED")
			}
		}
	}
	c.RawQuery = q.Encode()
	return c.Redacted()
}
