// Package httpclient implements crawler.Fetcher over net/http: shared
// connection pooling, a per-attempt timeout, a fixed retry/backoff
// schedule, a content-type gate, a redirect cap, and a size cap
// enforced both from Content-Length and while streaming the body.
package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cametumbling/crawlindex/internal/crawler"
	"github.com/cametumbling/crawlindex/internal/stats"
)

const (
	// DefaultTimeout is the default per-attempt HTTP request timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodySize is the default maximum response body size (10 MiB).
	DefaultMaxBodySize = 10 * 1024 * 1024
	// DefaultUserAgent is the User-Agent header sent with every request.
	DefaultUserAgent = "ConcurrentCrawler/1.0"

	maxRetries = 3

	// maxRedirects caps the number of redirect hops a single fetch will
	// follow before giving up.
	maxRedirects = 5
)

// backoffSchedule gives the delay before retry attempt i (0-indexed):
// 1s, 2s, 4s.
var backoffSchedule = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Client is a crawler.Fetcher backed by a single shared *http.Client,
// so all fetches reuse one connection pool. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
}

// Config configures a Client.
type Config struct {
	// Timeout is the per-attempt request timeout (default 10s).
	Timeout time.Duration
	// UserAgent is the User-Agent header to send.
	UserAgent string
	// MaxBodySize caps the response body read, in bytes (default 10 MiB).
	MaxBodySize int64
}

// New creates a Client with a shared transport for connection reuse
// across all fetches.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return errTooManyRedirects
				}
				return nil
			},
		},
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
	}
}

// errTooManyRedirects stops http.Client.Do once the redirect cap is hit;
// attempt() closes the last response returned alongside it and reports
// a too_many_redirects failure for the originally requested URL.
var errTooManyRedirects = errors.New("httpclient: stopped after 5 redirects")

// Fetch implements crawler.Fetcher. It retries on timeout, network, and
// 5xx failures per the fixed backoff schedule, and returns a
// *crawler.FetchError classifying any non-retryable or exhausted
// failure.
func (c *Client) Fetch(ctx context.Context, url string) (*crawler.FetchResult, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffSchedule[attempt-1]
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, &crawler.FetchError{URL: url, Kind: stats.KindCanceled, Err: ctx.Err()}
			case <-timer.C:
			}
		}

		result, err := c.attempt(ctx, url)
		if err == nil {
			result.Attempts = attempt + 1
			return result, nil
		}

		var ferr *crawler.FetchError
		if errors.As(err, &ferr) {
			lastErr = ferr
			if ferr.Kind == stats.KindCanceled || !ferr.Retryable() {
				return nil, ferr
			}
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

// attempt performs a single fetch attempt.
func (c *Client) attempt(ctx context.Context, url string) (*crawler.FetchResult, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &crawler.FetchError{URL: url, Kind: stats.KindNetwork, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, errTooManyRedirects) {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, &crawler.FetchError{URL: url, Kind: stats.KindTooManyRedirects, Err: err}
		}
		if ctx.Err() != nil {
			return nil, &crawler.FetchError{URL: url, Kind: stats.KindCanceled, Err: ctx.Err()}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &crawler.FetchError{URL: url, Kind: stats.KindTimeout, Err: err}
		}
		return nil, &crawler.FetchError{URL: url, Kind: stats.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &crawler.FetchError{URL: url, StatusCode: resp.StatusCode, Kind: stats.KindHTTP5xx}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &crawler.FetchError{URL: url, StatusCode: resp.StatusCode, Kind: stats.KindHTTP4xx}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "text/html") {
		return nil, &crawler.FetchError{URL: url, Kind: stats.KindBadContentType}
	}

	if resp.ContentLength > c.maxBodySize {
		return nil, &crawler.FetchError{URL: url, Kind: stats.KindOversize}
	}

	limited := io.LimitReader(resp.Body, c.maxBodySize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &crawler.FetchError{URL: url, Kind: stats.KindCanceled, Err: ctx.Err()}
		}
		return nil, &crawler.FetchError{URL: url, Kind: stats.KindNetwork, Err: err}
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, &crawler.FetchError{URL: url, Kind: stats.KindOversize}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &crawler.FetchResult{
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
		Duration:    time.Since(start),
	}, nil
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
