// Package events publishes booking lifecycle changes to Kafka.
package events

import (
	"context"
	"time"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"

	schemaVersion = "1"
)

// BookingEvent is the JSON payload of every booking event.
type BookingEvent struct {
	Type             string     `json:"type"`
	BookingID        string     `json:"booking_id"`
	ConfirmationCode string     `json:"booking_confirmation_code"`
	RoomID           string     `json:"room_id"`
	UserID           string     `json:"user_id"`
	CheckInDate      model.Date `json:"check_in_date"`
	CheckOutDate     model.Date `json:"check_out_date"`
	TotalNumOfGuests int        `json:"total_num_of_guests"`
	OccurredAt       time.Time  `json:"occurred_at"`
}

// Publisher is notified after a booking write has committed. Implementations
// must not fail the caller; delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking)
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer messagePublisher
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer messagePublisher, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg, err := NewMessage(eventType, p.source, middleware.RequestID(ctx), booking)
	if err != nil {
		p.log.Error("Failed to build booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"room_id", booking.RoomID,
			"error", err,
		)
	}
}

// NewMessage builds the Kafka message for a booking event, keyed by room.
func NewMessage(eventType, source, correlationID string, booking *model.Booking) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(booking.RoomID).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(correlationID).
		WithValue(BookingEvent{
			Type:             eventType,
			BookingID:        booking.ID,
			ConfirmationCode: booking.ConfirmationCode,
			RoomID:           booking.RoomID,
			UserID:           booking.UserID,
			CheckInDate:      booking.CheckInDate,
			CheckOutDate:     booking.CheckOutDate,
			TotalNumOfGuests: booking.TotalNumOfGuests,
			OccurredAt:       time.Now().UTC(),
		}).
		Build()
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *model.Booking) {}
