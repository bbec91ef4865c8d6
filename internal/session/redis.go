package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
)

const keyPrefix = "assess:session:"

// redisStore keeps sessions as TTL'd JSON blobs so several engine replicas
// behind a load balancer can serve the same respondent. Still best effort:
// expiry or a flushed cache just restarts the run.
type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{rdb: rdb, ttl: ttl}, nil
}

func (r *redisStore) Create(ctx context.Context) (Session, error) {
	now := time.Now().Unix()
	s := Session{
		ID:        uuid.NewString(),
		State:     assessment.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.write(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *redisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *redisStore) Put(ctx context.Context, s Session) error {
	exists, err := r.rdb.Exists(ctx, keyPrefix+s.ID).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now().Unix()
	return r.write(ctx, s)
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, keyPrefix+id).Err()
}

func (r *redisStore) write(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, keyPrefix+s.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
