// # internal/watcher/limiter.go
package watcher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter caps how often change batches turn into full rescans.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket with r rescans per second and burst b.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), b),
	}
}

// Allow reports whether a rescan may start now.
func (l *Limiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until the next rescan token is available.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.WaitN(ctx, 1)
}
