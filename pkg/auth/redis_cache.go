package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTokenCachePrefix is the Redis key prefix for cached bearer tokens.
const DefaultTokenCachePrefix = "auth:token:"

// RedisCommands is the subset of redis.Cmdable the token cache needs.
type RedisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisTokenCache shares one bearer token across sidecar replicas: the first
// replica to refresh stores the token under a common key, the others reuse it
// until shortly before expiry.
type RedisTokenCache struct {
	client   RedisCommands
	prefix   string
	name     string
	fallback TokenSource
}

// NewRedisTokenCache wraps a token source with a Redis-backed cache keyed by
// name. prefix defaults to DefaultTokenCachePrefix.
func NewRedisTokenCache(client RedisCommands, prefix, name string, fallback TokenSource) (*RedisTokenCache, error) {
	if client == nil {
		return nil, errors.New("auth: redis client is required")
	}
	if name == "" {
		return nil, errors.New("auth: cache name is required")
	}
	if fallback == nil {
		return nil, errors.New("auth: fallback token source is required")
	}
	if prefix == "" {
		prefix = DefaultTokenCachePrefix
	}
	return &RedisTokenCache{client: client, prefix: prefix, name: name, fallback: fallback}, nil
}

func (c *RedisTokenCache) Token(ctx context.Context) (string, error) {
	token, err := c.client.Get(ctx, c.key()).Result()
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("auth: token cache get: %w", err)
	}

	token, err = c.fallback.Token(ctx)
	if err != nil {
		return "", err
	}

	ttl := time.Minute
	if expiry, expErr := TokenExpiry(token); expErr == nil {
		if remaining := time.Until(expiry); remaining > 0 {
			ttl = remaining
		}
	}
	if setErr := c.client.Set(ctx, c.key(), token, ttl).Err(); setErr != nil {
		return "", fmt.Errorf("auth: token cache set: %w", setErr)
	}
	return token, nil
}

func (c *RedisTokenCache) key() string {
	return c.prefix + c.name
}
