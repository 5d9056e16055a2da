package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const RoomLocksCollectionName = "Room_locks"

// RoomLockRepository stores advisory locks serializing bookings per room.
type RoomLockRepository interface {
	// Acquire returns the owner token of a new lock, or ErrRoomLocked while
	// another holder's lock is present.
	Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error)
	// Release drops the room's lock if owner still holds it. A lock that
	// expired and was taken by someone else is left alone.
	Release(ctx context.Context, roomID, owner string) error
}

type mongoRoomLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		cfg:        cfg,
		collection: db.Collection(RoomLocksCollectionName),
	}
}

func RoomLockID(roomID string) string {
	return "room_lock_" + roomID
}

func newRoomLock(roomID string, now time.Time, ttl time.Duration) *model.RoomLock {
	return &model.RoomLock{
		ID:        RoomLockID(roomID),
		Owner:     uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func expiredLockFilter(roomID string, now time.Time) bson.M {
	return bson.M{"_id": RoomLockID(roomID), "expires_at": bson.M{"$lt": now}}
}

func ownedLockFilter(roomID, owner string) bson.M {
	return bson.M{"_id": RoomLockID(roomID), "owner": owner}
}

func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := newRoomLock(roomID, now, ttl)

	// The TTL monitor runs about once a minute, so clear an expired holder first.
	if _, err := r.collection.DeleteOne(ctx, expiredLockFilter(roomID, now)); err != nil {
		return "", fmt.Errorf("failed to clear expired room lock: %w", err)
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %s", bookingserrors.ErrRoomLocked, roomID)
		}
		return "", fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return lock.Owner, nil
}

func (r *mongoRoomLockRepository) Release(ctx context.Context, roomID, owner string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, ownedLockFilter(roomID, owner)); err != nil {
		return fmt.Errorf("failed to release room lock: %w", err)
	}
	return nil
}
