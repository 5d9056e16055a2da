package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisRoomLockPrefix = "hotel:"

// releaseIfOwner deletes the key only while it still holds the caller's token.
var releaseIfOwner = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisRoomLockRepository keeps room locks in Redis so several API replicas
// share them. Expiry is left to Redis.
type redisRoomLockRepository struct {
	client *redis.Client
}

func NewRedisRoomLockRepository(client *redis.Client) RoomLockRepository {
	return &redisRoomLockRepository{client: client}
}

func redisRoomLockKey(roomID string) string {
	return redisRoomLockPrefix + RoomLockID(roomID)
}

func (r *redisRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error) {
	owner := uuid.NewString()
	ok, err := r.client.SetNX(ctx, redisRoomLockKey(roomID), owner, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire room lock: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", bookingserrors.ErrRoomLocked, roomID)
	}
	return owner, nil
}

func (r *redisRoomLockRepository) Release(ctx context.Context, roomID, owner string) error {
	if err := releaseIfOwner.Run(ctx, r.client, []string{redisRoomLockKey(roomID)}, owner).Err(); err != nil {
		return fmt.Errorf("failed to release room lock: %w", err)
	}
	return nil
}
