// Package lockout throttles repeated failed logins per account identifier
// using a fixed window counter.
package lockout

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FailureStore counts login failures per key within a fixed window. Counters
// expire with the window; Reset clears a counter early on successful login.
type FailureStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Throttle applies the fixed-window policy on top of a FailureStore.
type Throttle struct {
	store       FailureStore
	maxFailures int64
	window      time.Duration
}

// New constructs a throttle allowing maxFailures failed attempts per window.
func New(store FailureStore, maxFailures int, window time.Duration) *Throttle {
	return &Throttle{
		store:       store,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

func key(email string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(email))
}

// Allowed reports whether the identifier may attempt another login.
func (t *Throttle) Allowed(ctx context.Context, email string) (bool, error) {
	count, err := t.store.Count(ctx, key(email))
	if err != nil {
		return false, fmt.Errorf("throttle count: %w", err)
	}
	return count < t.maxFailures, nil
}

// RecordFailure registers a failed attempt and reports whether the identifier
// is now throttled.
func (t *Throttle) RecordFailure(ctx context.Context, email string) (bool, error) {
	count, err := t.store.Increment(ctx, key(email), t.window)
	if err != nil {
		return false, fmt.Errorf("throttle increment: %w", err)
	}
	return count >= t.maxFailures, nil
}

// Reset clears the failure counter after a successful login.
func (t *Throttle) Reset(ctx context.Context, email string) error {
	if err := t.store.Reset(ctx, key(email)); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}
