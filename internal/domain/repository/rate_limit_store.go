package repository

import (
	"context"
	"time"
)

// RateLimitStore is a keyed fixed-window counter shared across requests.
type RateLimitStore interface {
	// Hit increments key, starting a window of the given length on first hit, and returns the new count.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
	// TooMany reports whether key reached max and how long until the window resets.
	TooMany(ctx context.Context, key string, max int) (bool, time.Duration, error)
	// Remaining returns how many hits are left in the current window.
	Remaining(ctx context.Context, key string, max int) (int, error)
}
