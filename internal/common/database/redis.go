// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"outy-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the session cache client. It does not dial; call
// PingRedis to verify connectivity.
func NewRedis(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func PingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
