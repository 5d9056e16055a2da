package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDuplicateConfirmationCode = errors.New("confirmation code already in use")

	ErrRoomLocked = errors.New("room lock already held")
)
