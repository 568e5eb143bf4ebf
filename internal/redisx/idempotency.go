package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Idempotency maps a checkout key to the order it created. A claimed key
// holds an empty value until Remember stores the order id.
type Idempotency struct {
	RDB *redis.Client
}

func (i *Idempotency) Claim(ctx context.Context, key string) (string, bool, error) {
	k := fmt.Sprintf(KeyIdemCheckout, key)
	ok, err := i.RDB.SetNX(ctx, k, "", TTLIdemClaim).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}
	id, err := i.RDB.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// claim expired between SETNX and GET; the caller may retry
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, false, nil
}

func (i *Idempotency) Remember(ctx context.Context, key, orderID string) error {
	return i.RDB.Set(ctx, fmt.Sprintf(KeyIdemCheckout, key), orderID, TTLIdempotency).Err()
}

func (i *Idempotency) Release(ctx context.Context, key string) error {
	return i.RDB.Del(ctx, fmt.Sprintf(KeyIdemCheckout, key)).Err()
}
