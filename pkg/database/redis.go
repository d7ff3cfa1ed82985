package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client when REDIS_ADDR is configured and reachable.
// A nil client with a nil error means caching is disabled.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, nil
	}

	db := 0
	if cfg.DB != "" {
		n, err := strconv.Atoi(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db '%s': %v", cfg.DB, err)
		}
		db = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
