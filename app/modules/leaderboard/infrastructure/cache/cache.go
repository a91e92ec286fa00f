// Package leaderboardcache stores computed leaderboards in Redis.
package leaderboardcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "leaderboard:"
	genPrefix = "leaderboard-gen:"
)

// setIfGeneration stores the leaderboard only while the game's generation still
// matches the one the caller read before building it.
var setIfGeneration = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[2]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisCache keeps one serialized leaderboard per game with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses url, pings the server and returns a cache backed by it.
func Connect(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisCache(client, ttl), nil
}

func key(gameID uuid.UUID) string    { return keyPrefix + gameID.String() }
func genKey(gameID uuid.UUID) string { return genPrefix + gameID.String() }

// Generation returns the invalidation counter of the game. A build that read
// generation n may only be stored while the counter is still n.
func (c *RedisCache) Generation(ctx context.Context, gameID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(gameID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read leaderboard generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached leaderboard. ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context, gameID uuid.UUID) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached leaderboard: %w", err)
	}
	return data, true, nil
}

// Set stores data built at generation gen. stored is false when an invalidation
// happened after gen was read.
func (c *RedisCache) Set(ctx context.Context, gameID uuid.UUID, gen int64, data []byte) (bool, error) {
	n, err := setIfGeneration.Run(ctx, c.client,
		[]string{key(gameID), genKey(gameID)},
		gen, data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache leaderboard: %w", err)
	}
	return n == 1, nil
}

// Invalidate bumps the generation and drops the cached copy in one transaction.
func (c *RedisCache) Invalidate(ctx context.Context, gameID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(gameID))
		pipe.Del(ctx, key(gameID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate leaderboard: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop is used when no Redis URL is configured. Every read is a miss.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Generation(context.Context, uuid.UUID) (int64, error)        { return 0, nil }
func (Noop) Set(context.Context, uuid.UUID, int64, []byte) (bool, error) { return true, nil }
func (Noop) Invalidate(context.Context, uuid.UUID) error                 { return nil }
func (Noop) Close() error                                                { return nil }
