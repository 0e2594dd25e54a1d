package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider paces completion calls through a token bucket so chat
// sessions and rerank scoring stay under the backend's request quota.
type RateLimitedProvider struct {
	inner Provider
	rpm   int

	mu         sync.Mutex
	available  int
	lastRefill time.Time
}

// NewRateLimitedProvider allows at most rpm calls per minute through inner.
// Excess callers block until budget refills or their context ends.
func NewRateLimitedProvider(inner Provider, rpm int) Provider {
	return &RateLimitedProvider{
		inner:      inner,
		rpm:        rpm,
		available:  rpm,
		lastRefill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.inner.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	for !r.take() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return r.inner.Complete(ctx, req)
}

// take refills the bucket for the elapsed time and claims one slot if any is
// available.
func (r *RateLimitedProvider) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(r.lastRefill).Seconds() * float64(r.rpm) / 60)
	if refill > 0 {
		r.available += refill
		if r.available > r.rpm {
			r.available = r.rpm
		}
		r.lastRefill = now
	}

	if r.available == 0 {
		return false
	}
	r.available--
	return true
}
