package convert

import (
	"context"
	"sync"

	"github.com/fwojciec/ss2wp"
	"golang.org/x/time/rate"
)

var _ ss2wp.DomainLimiter = (*HostLimiter)(nil)

// HostLimiter spaces out image requests per host with a token bucket for
// each host. Squarespace serves images from a CDN host separate from the
// page host, so the two are limited independently.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second per
// host with the given burst. A burst below 1 is treated as 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    max(burst, 1),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
