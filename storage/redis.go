package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of *redis.Client the store uses.
type RedisClient interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	MSet(ctx context.Context, values ...interface{}) *redis.StatusCmd
	Close() error
}

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type redisBlobs struct {
	client RedisClient
	prefix string
}

func (b redisBlobs) get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = b.prefix + k
	}

	vals, err := b.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}

	out := make(map[string][]byte, len(keys))
	for i, v := range vals {
		if i >= len(keys) || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			out[keys[i]] = []byte(s)
		case []byte:
			out[keys[i]] = s
		default:
			return nil, &StorageError{Op: "load", Key: keys[i], Err: fmt.Errorf("unexpected reply type %T", v)}
		}
	}
	return out, nil
}

// put uses MSET, which redis applies atomically.
func (b redisBlobs) put(ctx context.Context, kv map[string][]byte) error {
	args := make([]interface{}, 0, len(kv)*2)
	for k, v := range kv {
		args = append(args, b.prefix+k, v)
	}
	if err := b.client.MSet(ctx, args...).Err(); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// RedisStore keeps both blobs as plain redis string keys.
type RedisStore struct {
	codec
	client RedisClient
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client RedisClient, prefix string) *RedisStore {
	return &RedisStore{
		codec:  codec{b: redisBlobs{client: client, prefix: prefix}},
		client: client,
	}
}

// NewRedis dials redis and checks the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	return NewRedisWithClient(client, opts.KeyPrefix), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
