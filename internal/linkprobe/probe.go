// Package linkprobe checks whether external URLs are reachable with HTTP HEAD
// requests.
//
// Requests are rate limited and results are cached by URL for the lifetime
// of the Prober, so a URL cited by many documents is probed once per run.
package linkprobe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 4.0
	DefaultBurst             = 4
	DefaultUserAgent         = "corpuscheck"
	DefaultCacheSize         = 512
)

// Options controls probe behavior. Zero values fall back to the defaults.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
	CacheSize         int
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Prober issues HEAD requests for absolute http(s) URLs.
type Prober struct {
	client    *http.Client
	limiter   *rate.Limiter
	cache     *lru.Cache[string, int]
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

// New creates a Prober.
func New(opts Options) (*Prober, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, err := lru.New[string, int](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create probe cache: %w", err)
	}

	return &Prober{
		client:    opts.HTTPClient,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		cache:     cache,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}, nil
}

// Probe returns the final HTTP status code for url after redirects.
//
// Transport failures and timeouts are returned as errors and are not
// cached; callers treat them as inconclusive.
func (p *Prober) Probe(ctx context.Context, url string) (int, error) {
	if status, ok := p.cache.Get(url); ok {
		return status, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Link probe failed", slog.String("url", url), slog.String("error", err.Error()))
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	p.cache.Add(url, resp.StatusCode)
	p.logger.Debug("Link probed", slog.String("url", url), slog.Int("status", resp.StatusCode))
	return resp.StatusCode, nil
}

// Cached reports how many URLs have a cached status.
func (p *Prober) Cached() int {
	return p.cache.Len()
}
