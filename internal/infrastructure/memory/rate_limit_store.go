package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/user-events-service/internal/domain/repository"
)

type counter struct {
	count     int
	expiresAt time.Time
}

// RateLimitStore is a fixed-window counter map safe for concurrent use.
// Expired windows are reset on access and swept by a background loop.
type RateLimitStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimitStore starts a sweeper running every cleanupInterval; pass 0 to disable it.
func NewRateLimitStore(cleanupInterval time.Duration) *RateLimitStore {
	s := &RateLimitStore{
		counters: make(map[string]*counter),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.cleanupLoop(cleanupInterval)
	}
	return s
}

// live returns the counter for key if its window has not expired. Caller holds mu.
func (s *RateLimitStore) live(key string) *counter {
	c, ok := s.counters[key]
	if !ok {
		return nil
	}
	if !s.now().Before(c.expiresAt) {
		delete(s.counters, key)
		return nil
	}
	return c
}

func (s *RateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(key)
	if c == nil {
		c = &counter{expiresAt: s.now().Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}

func (s *RateLimitStore) TooMany(ctx context.Context, key string, max int) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(key)
	if c == nil || c.count < max {
		return false, 0, nil
	}
	return true, c.expiresAt.Sub(s.now()), nil
}

func (s *RateLimitStore) Remaining(ctx context.Context, key string, max int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := 0
	if c := s.live(key); c != nil {
		used = c.count
	}
	if rem := max - used; rem > 0 {
		return rem, nil
	}
	return 0, nil
}

func (s *RateLimitStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for k, c := range s.counters {
				if !now.Before(c.expiresAt) {
					delete(s.counters, k)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Close stops the sweeper.
func (s *RateLimitStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

var _ repository.RateLimitStore = (*RateLimitStore)(nil)
