package redisx

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// IdempotencyStore maps client-supplied idempotency keys to order IDs so a
// retried checkout returns the already-created order instead of a duplicate.
// Keys are scoped per customer; one customer cannot replay another's key.
type IdempotencyStore struct {
	rdb *redis.Client
}

// NewIdempotencyStore returns an IdempotencyStore over the given client.
func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

// Lookup returns the order ID previously recorded for the customer's key.
func (s *IdempotencyStore) Lookup(ctx context.Context, customerID, key string) (string, bool, error) {
	orderID, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdemCheckout, customerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "idempotency lookup")
	}
	return orderID, true, nil
}

// Record associates the key with the created order. SetNX keeps the first
// write so two racing checkouts agree on one order ID.
func (s *IdempotencyStore) Record(ctx context.Context, customerID, key, orderID string) error {
	return s.rdb.SetNX(ctx, fmt.Sprintf(KeyIdemCheckout, customerID, key), orderID, TTLIdempotency).Err()
}
