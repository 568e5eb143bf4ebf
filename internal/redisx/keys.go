package redisx

import "time"

const (
	// Checkout idempotency: idem:checkout:{customer_id}:{key} -> order_id
	KeyIdemCheckout = "idem:checkout:%s"

	// Cart per session: cart:{session_id} -> cart JSON
	KeyCart = "cart:%s"

	// Cache status order: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	// or {"deleted": true, "updated_at": "..."} once the order is removed
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLIdemClaim   = time.Minute
	TTLCart        = 24 * time.Hour
	TTLStatusCache = 30 * time.Minute
	TTLDedup       = 48 * time.Hour

	TTLStatusTombstone = TTLDedup + time.Hour
)
