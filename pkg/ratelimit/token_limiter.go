package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget, used to stay under the
// AI provider's token-per-minute quota. The window resets a minute after the
// first consumption in that window.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter with the given tokens-per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{maxPerMin: maxPerMinute}
}

// Wait blocks until n tokens fit in the current window, then consumes them.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if l.windowStart.IsZero() || now.Sub(l.windowStart) >= time.Minute {
			l.windowStart = now
			l.used = 0
		}
		if l.used+n <= l.maxPerMin || n > l.maxPerMin {
			// Oversized requests are admitted alone rather than blocking forever.
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetRemaining reports how many tokens are left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.windowStart.IsZero() || time.Since(l.windowStart) >= time.Minute {
		return l.maxPerMin
	}
	return l.maxPerMin - l.used
}
