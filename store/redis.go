package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces snapshot keys when no prefix is configured.
const DefaultRedisPrefix = "uistream:thread:"

// RedisAdapter persists snapshots as Redis string values under a key prefix.
type RedisAdapter struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisAdapter creates an adapter on an existing client. The caller owns
// the client and closes it.
func NewRedisAdapter(rdb *redis.Client, prefix string) *RedisAdapter {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisAdapter{rdb: rdb, prefix: prefix}
}

func (a *RedisAdapter) key(id string) string {
	return a.prefix + id
}

func (a *RedisAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	v, err := a.rdb.Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: redis get %q: %w", key, err)
	}
	return json.RawMessage(v), true, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := a.rdb.Set(ctx, a.key(key), []byte(value), 0).Err(); err != nil {
		return fmt.Errorf("store: redis set %q: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.rdb.Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("store: redis del %q: %w", key, err)
	}
	return nil
}

// Keys scans the prefix and returns thread IDs with the prefix stripped.
func (a *RedisAdapter) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := a.rdb.Scan(ctx, 0, a.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), a.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("store: redis scan: %w", err)
	}
	return keys, nil
}
