package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/ux-critique/internal/domain/session"
)

const keyPrefix = "uxcritique:session:"

// RedisStore keeps sessions in Redis; expiry is delegated to key TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string { return keyPrefix + id }

func (r *RedisStore) Get(ctx context.Context, id string) (*session.Session, error) {
	b, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s session.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *session.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, key(s.ID), b, r.remaining(s.CreatedAt)).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (r *RedisStore) Touch(ctx context.Context, id string, now time.Time) error {
	b, err := json.Marshal(&session.Session{ID: id, CreatedAt: now})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.SetNX(ctx, key(id), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Sweep gives every session key without an expiry one full retention window.
// Redis removes expired keys on its own, so nothing is reported as removed.
func (r *RedisStore) Sweep(ctx context.Context, _ time.Time, _ time.Duration) ([]string, error) {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		d, err := r.client.TTL(ctx, k).Result()
		if err != nil {
			return nil, fmt.Errorf("ttl %s: %w", k, err)
		}
		if d == -1 {
			if err := r.client.Expire(ctx, k, r.ttl).Err(); err != nil {
				return nil, fmt.Errorf("expire %s: %w", k, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return nil, nil
}

// remaining keeps the key's expiry anchored to the session's creation time.
func (r *RedisStore) remaining(created time.Time) time.Duration {
	if created.IsZero() {
		return r.ttl
	}
	left := time.Until(created.Add(r.ttl))
	if left < time.Second {
		return time.Second
	}
	return left
}
