package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_FixedWindow(t *testing.T) {
	s := NewRateLimitStore(0)
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.Hit(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	tooMany, retry, err := s.TooMany(ctx, "k", 3)
	require.NoError(t, err)
	assert.True(t, tooMany)
	assert.Equal(t, time.Minute, retry)

	rem, err := s.Remaining(ctx, "k", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, rem)

	now = now.Add(time.Minute)
	tooMany, _, err = s.TooMany(ctx, "k", 3)
	require.NoError(t, err)
	assert.False(t, tooMany, "window should reset after expiry")

	rem, err = s.Remaining(ctx, "k", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rem)
}

func TestRateLimitStore_RemainingNeverNegative(t *testing.T) {
	s := NewRateLimitStore(0)
	defer s.Close()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, _ = s.Hit(ctx, "k", time.Minute)
	}
	rem, err := s.Remaining(ctx, "k", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, rem)
}

func TestRateLimitStore_ConcurrentHits(t *testing.T) {
	s := NewRateLimitStore(time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Hit(ctx, "shared", time.Hour)
		}()
	}
	wg.Wait()

	rem, err := s.Remaining(ctx, "shared", 150)
	require.NoError(t, err)
	assert.Equal(t, 50, rem)
}
