package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"awdtrack/internal/model"
)

const sessionKeyPrefix = "awd:session:"

// SessionStore keeps live sessions.
type SessionStore interface {
	Save(ctx context.Context, sess model.Session) error
	Get(ctx context.Context, id string) (model.Session, error)
	Delete(ctx context.Context, id string) error
}

// KV is the subset of the go-redis client the session store needs.
type KV interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionStore stores sessions as JSON values that expire with the session.
type RedisSessionStore struct {
	kv  KV
	now func() time.Time
}

// NewRedisSessionStore wraps a go-redis client.
func NewRedisSessionStore(kv KV) *RedisSessionStore {
	return &RedisSessionStore{kv: kv, now: time.Now}
}

var _ SessionStore = (*RedisSessionStore)(nil)

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save stores sess until its ExpiresAt. Sessions already expired are rejected.
func (s *RedisSessionStore) Save(ctx context.Context, sess model.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey(sess.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (model.Session, error) {
	raw, err := s.kv.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Delete removes the session. Deleting an unknown session is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.kv.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
