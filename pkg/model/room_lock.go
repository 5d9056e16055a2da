package model

import "time"

// RoomLock is an advisory lock held while a booking for the room is being written.
// Owner is a random token; only the request holding it may release the lock.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
