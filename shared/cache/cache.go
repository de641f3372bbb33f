package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"resort/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Nil is returned by Get when the key does not exist.
const Nil = redis.Nil

const (
	scopeName    = "cache"
	keyAttribute = "cache.key"
	scanBatch    = 200
)

// RedisCache stores JSON encoded values with a TTL in seconds. Strings are stored raw.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	// Clear removes every key matching the glob pattern.
	Clear(ctx context.Context, pattern string) error
	// Reserve stores value only when key is absent and reports whether it did.
	Reserve(ctx context.Context, key string, value any, duration int) (bool, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

func (c *redisCache) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, scopeName, scopeName+"."+op)
	scope.SetAttribute(keyAttribute, key)

	return ctx, scope
}

func (c *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	raw, err := encode(value)
	if err != nil {
		return err
	}

	if err = c.client.Set(ctx, key, raw, ttl(duration)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save cache entry")

		return fmt.Errorf("failed to save cache entry %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("ttl_seconds", duration).Msg("cache entry saved")

	return nil
}

// Get decodes the entry into value, which must be a pointer. It returns an error
// wrapping Nil on a miss.
func (c *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()

	raw, err := c.client.Get(ctx, key).Bytes()

	scope.SetAttribute("cache.hit", err == nil)

	if err != nil {
		if !errors.Is(err, redis.Nil) {
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}

	if s, ok := value.(*string); ok {
		*s = string(raw)

		return nil
	}

	if err = json.Unmarshal(raw, value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to decode cache entry")

		return fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache entry")

		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}

	return nil
}

// Clear scans in batches and unlinks each batch.
func (c *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := c.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var (
		cursor  uint64
		removed int64
	)

	for {
		var keys []string

		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			n, unlinkErr := c.client.Unlink(ctx, keys...).Result()
			if unlinkErr != nil {
				log.Error().Err(unlinkErr).Str("pattern", pattern).Msg("failed to clear cache entries")

				return fmt.Errorf("failed to clear cache entries %s: %w", pattern, unlinkErr)
			}

			removed += n
		}

		if cursor == 0 {
			break
		}
	}

	scope.SetAttribute("cache.removed", removed)

	return nil
}

func (c *redisCache) Reserve(ctx context.Context, key string, value any, duration int) (ok bool, err error) {
	ctx, scope := c.scope(ctx, "Reserve", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	raw, err := encode(value)
	if err != nil {
		return false, err
	}

	ok, err = c.client.SetNX(ctx, key, raw, ttl(duration)).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to reserve cache key")

		return false, fmt.Errorf("failed to reserve cache key %s: %w", key, err)
	}

	return ok, nil
}

func ttl(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache value: %w", err)
	}

	return raw, nil
}
