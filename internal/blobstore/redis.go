package blobstore

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each blob as a Redis string under "<prefix><key>".
// Redis rejects writes with an OOM error when maxmemory is hit; a
// client-side quota can additionally be set for deployments where the
// Redis instance is shared.
type RedisStore struct {
	client *redis.Client
	prefix string
	quota  int64
}

// NewRedisStore creates a Redis-backed store. Prefix may be empty; quota of
// zero disables the client-side capacity check.
func NewRedisStore(client *redis.Client, prefix string, quotaBytes int64) *RedisStore {
	if prefix == "" {
		prefix = "blob:"
	}
	return &RedisStore{client: client, prefix: prefix, quota: quotaBytes}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	if r.quota > 0 {
		used, err := r.usedExcept(ctx, key)
		if err != nil {
			return err
		}
		if used+int64(len(data)) > r.quota {
			return ErrQuotaExceeded
		}
	}
	err := r.client.Set(ctx, r.key(key), data, 0).Err()
	if err != nil && strings.HasPrefix(err.Error(), "OOM") {
		return ErrQuotaExceeded
	}
	return err
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// usedExcept sums the stored size of every blob under the prefix except
// the one about to be replaced.
func (r *RedisStore) usedExcept(ctx context.Context, key string) (int64, error) {
	var total int64
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if k == r.key(key) {
			continue
		}
		n, err := r.client.StrLen(ctx, k).Result()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, iter.Err()
}
