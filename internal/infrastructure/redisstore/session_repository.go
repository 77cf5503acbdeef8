package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-events-service/internal/domain/repository"
)

// SessionRepository keeps the active session of a user in a Redis hash.
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func (r *SessionRepository) Save(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	key := sessionKey(userID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"sid":        sessionID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	sid, err := r.rdb.HGet(ctx, sessionKey(userID), "sid").Result()
	if err == redis.Nil || (err == nil && sid == "") {
		return "", repository.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return sid, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, sessionKey(userID)).Err()
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
