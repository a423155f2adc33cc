package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"civic-feedback-server/config"
	"civic-feedback-server/logger"
)

var Redis *redis.Client

// InitRedis connects the shared client. An empty address leaves caching
// disabled; a failed ping only logs, callers fall back to the database.
func InitRedis(ctx context.Context) {
	cfg := config.AppConfig.Redis
	if cfg.Addr == "" {
		logger.Info().Msg("ℹ️ REDIS_ADDR not set, feedback cache disabled")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := Redis.Ping(ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Failed to connect to Redis, reads will fall back to the database")
	} else {
		logger.Info().Str("addr", cfg.Addr).Msg("✅ Connected to Redis successfully")
	}
}

// CacheSet stores value as JSON under key
func CacheSet(ctx context.Context, client *redis.Client, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, expiration).Err()
}

// CacheGet decodes the JSON stored under key into dest.
// A missing key returns redis.Nil.
func CacheGet(ctx context.Context, client *redis.Client, key string, dest interface{}) error {
	val, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

// CacheInvalidate deletes the given keys
func CacheInvalidate(ctx context.Context, client *redis.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
