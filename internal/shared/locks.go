package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OrderLockKey builds redis keys for service order critical sections.
func OrderLockKey(orderID int64) string {
	return fmt.Sprintf("logistics:order:%d:lock", orderID)
}

// OrderLocker serialises mutations per service order. Every schedule or
// status mutation runs under this lock so that at most one writer touches
// an order's routes at a time.
type OrderLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrderLocker returns an OrderLocker with the given lock TTL.
func NewOrderLocker(client *redis.Client, ttl time.Duration) *OrderLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &OrderLocker{client: client, ttl: ttl}
}

// Acquire takes the per-order lock. The returned release function deletes
// the lock only when this caller still owns it.
func (l *OrderLocker) Acquire(ctx context.Context, orderID int64) (release func(), err error) {
	if l == nil || l.client == nil {
		// Lock backend not configured: degrade to the single-writer
		// assumption without coordination.
		return func() {}, nil
	}

	key := OrderLockKey(orderID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("shared: acquire order lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release = func() {
		const unlock = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		_ = l.client.Eval(context.Background(), unlock, []string{key}, token).Err()
	}
	return release, nil
}
