package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a client with short timeouts so a slow cache never
// holds up a request for long.
func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

// Healthy verifies redis connectivity.
func Healthy(ctx context.Context, client *redis.Client) bool {
	if client == nil {
		return false
	}
	return client.Ping(ctx).Err() == nil
}
