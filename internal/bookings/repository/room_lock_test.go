package repository

import (
	"context"
	"testing"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newRedisLocks(t *testing.T) (RoomLockRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRoomLockRepository(client), mr
}

func TestRedisRoomLock_SecondAcquireIsRejected(t *testing.T) {
	locks, _ := newRedisLocks(t)
	ctx := context.Background()

	owner, err := locks.Acquire(ctx, "room-1", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, owner)

	_, err = locks.Acquire(ctx, "room-1", time.Minute)
	assert.ErrorIs(t, err, bookingserrors.ErrRoomLocked)

	_, err = locks.Acquire(ctx, "room-2", time.Minute)
	assert.NoError(t, err, "locks are per room")
}

func TestRedisRoomLock_ReleaseFreesTheRoom(t *testing.T) {
	locks, _ := newRedisLocks(t)
	ctx := context.Background()

	owner, err := locks.Acquire(ctx, "room-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, locks.Release(ctx, "room-1", owner))

	_, err = locks.Acquire(ctx, "room-1", time.Minute)
	assert.NoError(t, err)
}

func TestRedisRoomLock_ExpiredHolderCannotReleaseNewLock(t *testing.T) {
	locks, mr := newRedisLocks(t)
	ctx := context.Background()

	stale, err := locks.Acquire(ctx, "room-1", 10*time.Second)
	require.NoError(t, err)

	mr.FastForward(11 * time.Second)
	current, err := locks.Acquire(ctx, "room-1", 10*time.Second)
	require.NoError(t, err)
	require.NotEqual(t, stale, current)

	require.NoError(t, locks.Release(ctx, "room-1", stale))

	_, err = locks.Acquire(ctx, "room-1", 10*time.Second)
	assert.ErrorIs(t, err, bookingserrors.ErrRoomLocked, "the current holder must keep its lock")
	got, err := mr.Get(redisRoomLockKey("room-1"))
	require.NoError(t, err)
	assert.Equal(t, current, got)
}

func TestMongoRoomLock_Filters(t *testing.T) {
	now := time.Date(2030, time.June, 10, 12, 0, 0, 0, time.UTC)

	lock := newRoomLock("abc", now, 45*time.Second)
	assert.Equal(t, "room_lock_abc", lock.ID)
	assert.NotEmpty(t, lock.Owner)
	assert.Equal(t, now.Add(45*time.Second), lock.ExpiresAt)
	assert.NotEqual(t, lock.Owner, newRoomLock("abc", now, time.Second).Owner)

	assert.Equal(t, bson.M{"_id": "room_lock_abc", "owner": lock.Owner}, ownedLockFilter("abc", lock.Owner))
	assert.Equal(t, bson.M{"_id": "room_lock_abc", "expires_at": bson.M{"$lt": now}}, expiredLockFilter("abc", now))
}
