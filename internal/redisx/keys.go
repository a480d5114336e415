package redisx

import "time"

const (
	// Idempotent checkout: idem:order:create:{customer_id}:{key} -> order_id
	KeyIdemCheckout = "idem:order:create:%s:%s"

	// Cached order status: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
)
