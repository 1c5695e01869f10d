package preference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the per-profile hashes.
const DefaultRedisPrefix = "aula:prefs:"

// RedisStore implements Store with one Redis hash per profile.
// A positive TTL is refreshed on every write so idle profiles expire.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: DefaultRedisPrefix, ttl: ttl}
}

// DialRedis parses url and pings the server.
// POST: returns a client that answered PING within five seconds
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ConnMaxIdleTime = 5 * time.Minute
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(profileID string) string {
	return s.prefix + profileID
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, profileID string) (map[string]string, error) {
	if err := checkProfile(profileID); err != nil {
		return nil, err
	}
	kv, err := s.client.HGetAll(ctx, s.key(profileID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return kv, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, profileID, key string) (string, bool, error) {
	if err := checkProfile(profileID); err != nil {
		return "", false, err
	}
	v, err := s.client.HGet(ctx, s.key(profileID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return v, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, profileID, key, value string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(profileID), key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(profileID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (s *RedisStore) Remove(ctx context.Context, profileID, key string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.key(profileID), key).Err(); err != nil {
		return fmt.Errorf("remove preference %s: %w", key, err)
	}
	return nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, profileID string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(profileID)).Err(); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}
	return nil
}
