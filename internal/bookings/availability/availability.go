// Package availability decides whether a room can take a new stay.
//
// The rule set is not a plain interval-overlap test and must be kept clause
// for clause. A candidate stay is rejected when, for any
// existing stay of the same room, one of the following holds:
//
//  1. both stays start on the same day
//  2. the candidate checks out before the existing stay does
//  3. the candidate checks in strictly inside the existing stay
//  4. the candidate starts earlier and both check out on the same day
//  5. the candidate starts earlier and checks out later (encloses it)
//  6. the candidate is the existing stay mirrored (in == out and out == in)
//  7. the candidate is a zero-night stay on the existing check-out day
package availability

import "hotelbooking/pkg/model"

// IsRoomAvailable reports whether candidate can be admitted next to existing.
// The order of existing does not affect the result.
func IsRoomAvailable(candidate model.DateRange, existing []model.DateRange) bool {
	for _, booked := range existing {
		if Conflicts(candidate, booked) {
			return false
		}
	}
	return true
}

// Conflicts reports whether candidate collides with a single booked stay.
func Conflicts(candidate, booked model.DateRange) bool {
	in, out := candidate.CheckIn, candidate.CheckOut
	bookedIn, bookedOut := booked.CheckIn, booked.CheckOut

	switch {
	case in.Equal(bookedIn):
		return true
	case out.Before(bookedOut):
		return true
	case in.After(bookedIn) && in.Before(bookedOut):
		return true
	case in.Before(bookedIn) && out.Equal(bookedOut):
		return true
	case in.Before(bookedIn) && out.After(bookedOut):
		return true
	case in.Equal(bookedOut) && out.Equal(bookedIn):
		return true
	case in.Equal(bookedOut) && out.Equal(in):
		return true
	}
	return false
}

// Ranges extracts the stay of every booking.
func Ranges(bookings []*model.Booking) []model.DateRange {
	ranges := make([]model.DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, b.Range())
	}
	return ranges
}
