package application

import (
	"context"

	"golang.org/x/time/rate"
)

type reloadLimiter interface {
	Wait(ctx context.Context) error
}

// newTokenBucketLimiter throttles reloads; a zero rate disables throttling.
func newTokenBucketLimiter(ratePerSecond float64, burst int) reloadLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	return rate.NewLimiter(limit, burst)
}
