package common

import (
	"context"
	"time"

	"propertyhub/listingsync/internal/config"
	"propertyhub/listingsync/internal/logging"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a pooled client from config. A failed ping is
// logged but the client is still returned; the pool reconnects on demand.
func NewRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	log := logging.Component("Redis")
	addr := cfg.RedisAddr()
	log.Infow("Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnw("Failed to ping Redis", "addr", addr, "error", err.Error())
		return client
	}

	log.Infow("Connected to Redis", "addr", addr)
	return client
}
