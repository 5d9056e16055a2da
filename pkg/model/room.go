package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Room struct {
	ID          string               `json:"id,omitempty" bson:"_id,omitempty"`
	RoomType    string               `json:"room_type" bson:"room_type"`
	RoomPrice   primitive.Decimal128 `json:"room_price" bson:"room_price"`
	PhotoURL    string               `json:"room_photo_url" bson:"room_photo_url"`
	Description string               `json:"room_description,omitempty" bson:"room_description,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}

// RoomDetails is a room with its reservations.
type RoomDetails struct {
	*Room
	Bookings []*Booking `json:"bookings"`
}

// RoomInput carries the multipart fields of add and update calls. Empty fields
// on update leave the stored value unchanged.
type RoomInput struct {
	RoomType    string `validate:"omitempty,room_type"`
	RoomPrice   string `validate:"omitempty,price"`
	Description string `validate:"omitempty,max=2000"`
	Photo       *Upload
}

type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type AvailabilityQuery struct {
	CheckInDate  Date
	CheckOutDate Date
	RoomType     string
}
