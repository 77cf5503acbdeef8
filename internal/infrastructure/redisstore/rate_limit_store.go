package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-events-service/internal/domain/repository"
)

// Lua script: atomic INCR + PEXPIRE on the first hit of a window
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimitStore is a fixed-window counter backed by Redis, shared by all replicas.
type RateLimitStore struct {
	rdb *redis.Client
}

func NewRateLimitStore(rdb *redis.Client) *RateLimitStore {
	return &RateLimitStore{rdb: rdb}
}

func (s *RateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	v, err := incrExpireScript.Run(ctx, s.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	return toInt(v), nil
}

func (s *RateLimitStore) attempts(ctx context.Context, key string) (int, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return toInt(v), nil
}

func (s *RateLimitStore) TooMany(ctx context.Context, key string, max int) (bool, time.Duration, error) {
	n, err := s.attempts(ctx, key)
	if err != nil || n < max {
		return false, 0, err
	}
	ttl, err := s.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return true, 0, err
	}
	if ttl < 0 {
		ttl = 0
	}
	return true, ttl, nil
}

func (s *RateLimitStore) Remaining(ctx context.Context, key string, max int) (int, error) {
	n, err := s.attempts(ctx, key)
	if err != nil {
		return 0, err
	}
	if rem := max - n; rem > 0 {
		return rem, nil
	}
	return 0, nil
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}

var _ repository.RateLimitStore = (*RateLimitStore)(nil)
