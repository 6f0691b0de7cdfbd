package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// AppendCapped pushes an entry onto a list and trims it to maxEntries.
// Used by the audit sink.
func (r *Redis) AppendCapped(ctx context.Context, key string, entry string, maxEntries int64) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	pipe := r.Client.Pipeline()
	pipe.LPush(ctx, key, entry)
	pipe.LTrim(ctx, key, 0, maxEntries-1)
	_, err := pipe.Exec(ctx)
	return err
}

// CountInWindow increments a counter key and applies the window expiry on
// first use, returning the running count. Used by the login rate limiter.
func (r *Redis) CountInWindow(ctx context.Context, key string, windowSec int) (int64, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("redis client not configured")
	}
	count, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.Client.Expire(ctx, key, time.Duration(windowSec)*time.Second)
	}
	return count, nil
}
