package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottleBlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	throttle := New(NewInMemory(), 3, 15*time.Minute)

	allowed, err := throttle.Allowed(ctx, "ana@example.com")
	require.NoError(t, err)
	require.True(t, allowed)

	for i := 0; i < 2; i++ {
		throttled, err := throttle.RecordFailure(ctx, "ana@example.com")
		require.NoError(t, err)
		require.False(t, throttled)
	}

	throttled, err := throttle.RecordFailure(ctx, "ana@example.com")
	require.NoError(t, err)
	require.True(t, throttled)

	allowed, err = throttle.Allowed(ctx, "ana@example.com")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestThrottleKeyIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	throttle := New(NewInMemory(), 2, 15*time.Minute)

	_, err := throttle.RecordFailure(ctx, "Ana@Example.com")
	require.NoError(t, err)
	throttled, err := throttle.RecordFailure(ctx, "ana@example.com ")
	require.NoError(t, err)
	require.True(t, throttled)
}

func TestThrottleResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	throttle := New(NewInMemory(), 1, 15*time.Minute)

	throttled, err := throttle.RecordFailure(ctx, "ana@example.com")
	require.NoError(t, err)
	require.True(t, throttled)

	require.NoError(t, throttle.Reset(ctx, "ana@example.com"))

	allowed, err := throttle.Allowed(ctx, "ana@example.com")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestWindowExpiryReopensTheAccount(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewInMemory().WithClock(func() time.Time { return now })
	throttle := New(store, 1, 15*time.Minute)

	throttled, err := throttle.RecordFailure(ctx, "ana@example.com")
	require.NoError(t, err)
	require.True(t, throttled)

	now = now.Add(16 * time.Minute)

	allowed, err := throttle.Allowed(ctx, "ana@example.com")
	require.NoError(t, err)
	require.True(t, allowed)
}
