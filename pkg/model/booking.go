package model

import (
	"time"
)

type Booking struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	CheckInDate      Date      `json:"check_in_date" bson:"check_in_date"`
	CheckOutDate     Date      `json:"check_out_date" bson:"check_out_date"`
	NumOfAdults      int       `json:"num_of_adults" bson:"num_of_adults"`
	NumOfChildren    int       `json:"num_of_children" bson:"num_of_children"`
	TotalNumOfGuests int       `json:"total_num_of_guests" bson:"total_num_of_guests"`
	ConfirmationCode string    `json:"booking_confirmation_code" bson:"confirmation_code"`
	RoomID           string    `json:"room_id" bson:"room_id"`
	UserID           string    `json:"user_id" bson:"user_id"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

func (b *Booking) SetNumOfAdults(n int) {
	b.NumOfAdults = n
	b.recalculateTotalGuests()
}

func (b *Booking) SetNumOfChildren(n int) {
	b.NumOfChildren = n
	b.recalculateTotalGuests()
}

func (b *Booking) recalculateTotalGuests() {
	b.TotalNumOfGuests = b.NumOfAdults + b.NumOfChildren
}

func (b *Booking) Range() DateRange {
	return NewDateRange(b.CheckInDate, b.CheckOutDate)
}

// BookingRequest is the body of a book-room call.
type BookingRequest struct {
	CheckInDate   Date `json:"check_in_date"`
	CheckOutDate  Date `json:"check_out_date"`
	NumOfAdults   int  `json:"num_of_adults" validate:"min=1,max=20"`
	NumOfChildren int  `json:"num_of_children" validate:"min=0,max=20"`
}

func (r *BookingRequest) Range() DateRange {
	return NewDateRange(r.CheckInDate, r.CheckOutDate)
}

// NewBooking builds an unsaved booking for the given room and user.
func NewBooking(req *BookingRequest, roomID, userID string) *Booking {
	b := &Booking{
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		RoomID:       roomID,
		UserID:       userID,
	}
	b.SetNumOfAdults(req.NumOfAdults)
	b.SetNumOfChildren(req.NumOfChildren)
	return b
}

type BookingConfirmation struct {
	BookingID        string `json:"booking_id"`
	ConfirmationCode string `json:"booking_confirmation_code"`
}

// BookingDetails is a booking joined with its room and, optionally, its guest.
type BookingDetails struct {
	*Booking
	Room *Room     `json:"room,omitempty"`
	User *UserView `json:"user,omitempty"`
}
