package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "clubhub:session:"

type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(tgID int64) string {
	return keyPrefix + strconv.FormatInt(tgID, 10)
}

func (r *RedisStore) Load(ctx context.Context, tgID int64) (Session, bool, error) {
	raw, err := r.rdb.Get(ctx, key(tgID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return s, true, nil
}

func (r *RedisStore) Save(ctx context.Context, tgID int64, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, key(tgID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, tgID int64) error {
	if err := r.rdb.Del(ctx, key(tgID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
