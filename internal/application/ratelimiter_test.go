package application

import (
	"context"
	"testing"
	"time"
)

func TestNewTokenBucketLimiterZeroRateIsUnlimited(t *testing.T) {
	limiter := newTokenBucketLimiter(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("expected unlimited limiter, got %v", err)
		}
	}
}

func TestNewTokenBucketLimiterThrottles(t *testing.T) {
	limiter := newTokenBucketLimiter(0.001, 1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("expected first reload to pass, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Fatalf("expected second reload to be throttled")
	}
}
