package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds test contexts that do not need a specific deadline.
const DefaultTimeout = 5 * time.Second

// ContextWithTimeout returns a context cancelled after duration or when the
// test ends.
func ContextWithTimeout(t testing.TB, duration time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	t.Cleanup(cancel)

	return ctx
}

// ContextWithCancel returns a context cancelled when the test ends.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx, cancel
}
