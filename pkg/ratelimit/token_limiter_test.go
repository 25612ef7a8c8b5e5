package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_ConsumesWithinBudget(t *testing.T) {
	l := NewTokenLimiter(100)

	require.NoError(t, l.Wait(context.Background(), 30))
	assert.Equal(t, 70, l.GetRemaining())

	require.NoError(t, l.Wait(context.Background(), 70))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiter_OversizedRequestAdmittedAlone(t *testing.T) {
	l := NewTokenLimiter(100)

	done := make(chan error, 1)
	go func() { done <- l.Wait(context.Background(), 500) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("oversized request should not block")
	}
}

func TestTokenLimiter_BlockedWaitHonorsContext(t *testing.T) {
	l := NewTokenLimiter(10)
	require.NoError(t, l.Wait(context.Background(), 10))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenLimiter_FreshLimiterReportsFullBudget(t *testing.T) {
	l := NewTokenLimiter(42)
	assert.Equal(t, 42, l.GetRemaining())
}
