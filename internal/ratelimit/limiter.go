// Package ratelimit throttles outbound requests per target domain so repeat
// extractions don't hammer a single job board.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter controls request pacing per host.
type RateLimiter interface {
	// Wait blocks until a request for the given URL may proceed, or the
	// context is cancelled.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request for the URL may proceed right now.
	Allow(urlStr string) bool
}

// DomainLimiter applies a token bucket per domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter allowing requestsPerSecond per host.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the URL's domain bucket grants a token.
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	domain := extractDomain(urlStr)
	if domain == "" {
		// Unparseable URL; let the request fail where it's diagnosable.
		return nil
	}
	return dl.limiter(domain).Wait(ctx)
}

// Allow reports whether a token is available without blocking.
func (dl *DomainLimiter) Allow(urlStr string) bool {
	domain := extractDomain(urlStr)
	if domain == "" {
		return true
	}
	return dl.limiter(domain).Allow()
}

func (dl *DomainLimiter) limiter(domain string) *rate.Limiter {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if lim, ok := dl.limiters[domain]; ok {
		return lim
	}
	lim := rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[domain] = lim
	return lim
}

func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
