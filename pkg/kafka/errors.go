package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka producer is closed")

	// ErrInvalidMessage wraps payload encoding failures.
	ErrInvalidMessage = errors.New("invalid message")

	// Booking events are partitioned by room, so a message without a key is rejected.
	ErrEmptyKey   = errors.New("message key cannot be empty")
	ErrEmptyValue = errors.New("message value cannot be empty")
)
