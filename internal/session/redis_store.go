package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movielog/internal/model"
)

// RedisStore keeps each session as a JSON value with a native TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore builds a store writing keys under prefix. An empty prefix
// defaults to "movielog:session".
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "movielog:session"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(k string) string { return s.prefix + ":" + k }

func (s *RedisStore) Save(ctx context.Context, key string, sess model.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), b, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, key string) (*model.Session, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Sweep is a no-op; Redis expires keys on its own.
func (s *RedisStore) Sweep(context.Context) (int64, error) { return 0, nil }
