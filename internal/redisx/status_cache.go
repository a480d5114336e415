package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/greenbasket/greenbasket/internal/domain/order"
)

// StatusCache caches order statuses in Redis so tracking polls don't hit
// PostgreSQL on every request.
type StatusCache struct {
	rdb *redis.Client
}

// NewStatusCache returns a StatusCache over the given client.
func NewStatusCache(rdb *redis.Client) *StatusCache {
	return &StatusCache{rdb: rdb}
}

type cachedStatus struct {
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Get returns the cached status and owning customer for an order. The last
// return value is false on a cache miss.
func (c *StatusCache) Get(ctx context.Context, orderID string) (order.Status, string, bool) {
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Result()
	if err != nil {
		return "", "", false
	}
	var cs cachedStatus
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return "", "", false
	}
	st, err := order.ParseStatus(cs.Status)
	if err != nil {
		return "", "", false
	}
	return st, cs.CustomerID, true
}

// Set stores the order status with the cache TTL. The customer ID travels
// with the entry so reads can stay scoped without a database round trip.
func (c *StatusCache) Set(ctx context.Context, orderID, customerID string, st order.Status, updatedAt time.Time) error {
	raw, err := json.Marshal(cachedStatus{CustomerID: customerID, Status: string(st), UpdatedAt: updatedAt})
	if err != nil {
		return errors.Wrap(err, "marshal cached status")
	}
	return c.rdb.Set(ctx, fmt.Sprintf(KeyOrderStatus, orderID), raw, TTLStatusCache).Err()
}

// Invalidate drops the cached status, forcing the next read through to the
// database. Used after status transitions.
func (c *StatusCache) Invalidate(ctx context.Context, orderID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Err()
}
