package redisx

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// perCommandTimeout bounds every Redis command. Cache misses must never
// stall order reads.
const perCommandTimeout = 2 * time.Second

// New returns a go-redis client for the given address with short dial and
// per-command timeouts.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  perCommandTimeout,
		ReadTimeout:  perCommandTimeout,
		WriteTimeout: perCommandTimeout,
	})
}
