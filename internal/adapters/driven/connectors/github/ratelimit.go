package github

import (
	"context"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

// MinBuffer is the minimum remaining search requests before waiting for reset.
const MinBuffer = 2

// RateLimiter combines proactive throttling with the limits GitHub reports.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	bucket    *rate.Limiter
	minBuffer int
}

// NewRateLimiter creates a rate limiter allowing rps requests per second.
func NewRateLimiter(rps float64) *RateLimiter {
	return &RateLimiter{
		remaining: -1, // unknown until the first response
		bucket:    rate.NewLimiter(rate.Limit(rps), 1),
		minBuffer: MinBuffer,
	}
}

// Wait blocks until it's safe to make a request.
// Live search runs inside a request budget, so an exhausted quota fails fast
// instead of sleeping until reset.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	exhausted := r.remaining >= 0 && r.remaining < r.minBuffer && time.Now().Before(r.resetTime)
	reset := r.resetTime
	r.mu.Unlock()

	if exhausted {
		return &RateLimitedError{Reset: reset}
	}
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse records the quota reported by GitHub.
func (r *RateLimiter) UpdateFromResponse(resp *gh.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = resp.Rate.Remaining
	r.resetTime = resp.Rate.Reset.Time
}

// RateLimitedError is returned while the search quota is exhausted.
type RateLimitedError struct {
	Reset time.Time
}

func (e *RateLimitedError) Error() string {
	return "github search rate limit exhausted until " + e.Reset.Format(time.RFC3339)
}
