package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) *OrderLocker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOrderLocker(client, time.Minute)
}

func TestOrderLockerExcludesSecondWriter(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 42)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, 42)
	require.ErrorIs(t, err, ErrLocked)

	// A different order is unaffected.
	releaseOther, err := locker.Acquire(ctx, 43)
	require.NoError(t, err)
	releaseOther()

	release()

	release2, err := locker.Acquire(ctx, 42)
	require.NoError(t, err)
	release2()
}

func TestOrderLockerNilClientDegrades(t *testing.T) {
	var locker *OrderLocker
	release, err := locker.Acquire(context.Background(), 1)
	require.NoError(t, err)
	release()
}
