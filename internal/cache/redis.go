package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/colabhq/colab-server/internal/config"
)

type RedisCache struct {
	Client     *redis.Client
	sessionTTL time.Duration
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisCache{Client: redis.NewClient(opts), sessionTTL: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// --- sessions ---

// KeyForSession generates the Redis key for a bearer session token.
func (c *RedisCache) KeyForSession(token string) string {
	return "session:" + token
}

// CreateSession mints an opaque token for the user and stores it with the
// configured TTL.
func (c *RedisCache) CreateSession(ctx context.Context, userID uint64) (string, error) {
	token := uuid.NewString()
	key := c.KeyForSession(token)
	if err := c.Client.Set(ctx, key, strconv.FormatUint(userID, 10), c.sessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// SessionUserID resolves a token to a user id. A miss returns ok=false with
// a nil error. The TTL is refreshed on every hit (sliding expiry).
func (c *RedisCache) SessionUserID(ctx context.Context, token string) (uint64, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForSession(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	_ = c.Client.Expire(ctx, c.KeyForSession(token), c.sessionTTL).Err()
	return userID, true, nil
}

// DeleteSession invalidates the token. Deleting an unknown token is a no-op.
func (c *RedisCache) DeleteSession(ctx context.Context, token string) error {
	return c.Client.Del(ctx, c.KeyForSession(token)).Err()
}

// --- match counters ---

// KeyForMatchCount generates the Redis key for a user's match count.
func (c *RedisCache) KeyForMatchCount(userID uint64) string {
	return fmt.Sprintf("matches:count:%d", userID)
}

func (c *RedisCache) UpdateMatchCount(ctx context.Context, userID uint64, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, c.KeyForMatchCount(userID), count, time.Hour).Err()
}

func (c *RedisCache) GetMatchCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForMatchCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// IncrMatchCount bumps the cached count if present; a missing key stays
// missing so the next read falls back to the DB.
func (c *RedisCache) IncrMatchCount(ctx context.Context, userID uint64) error {
	key := c.KeyForMatchCount(userID)
	ok, err := c.Client.Expire(ctx, key, time.Hour).Result()
	if err != nil || !ok {
		return err
	}
	return c.Client.Incr(ctx, key).Err()
}

// InvalidateMatchCount drops the cached count, forcing a DB recount.
func (c *RedisCache) InvalidateMatchCount(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForMatchCount(userID)).Err()
}
