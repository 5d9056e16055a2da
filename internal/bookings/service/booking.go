package service

import (
	"context"
	"errors"
	"sync"

	"hotelbooking/internal/bookings/availability"
	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/events"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/bookings/validator"
	roomserrors "hotelbooking/internal/rooms/errors"
	userserrors "hotelbooking/internal/users/errors"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
)

// maxCodeAttempts bounds retries after a confirmation code collides with the unique index.
const maxCodeAttempts = 3

type BookingService interface {
	Create(ctx context.Context, roomID, userID string, req *model.BookingRequest) (*model.BookingConfirmation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByConfirmationCode(ctx context.Context, code string) (*model.BookingDetails, error)
	Cancel(ctx context.Context, id string) error
}

type RoomFinder interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	rooms     RoomFinder
	users     UserFinder
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config

	newCode func() (string, error)
	today   func() model.Date
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	rooms RoomFinder,
	users UserFinder,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		users:     users,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		newCode:   NewConfirmationCode,
		today:     model.Today,
	}
}

func (s *bookingService) Create(ctx context.Context, roomID, userID string, req *model.BookingRequest) (*model.BookingConfirmation, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request is required")
	}
	if err := s.validator.Validate(req, s.today()); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "room_id", roomID, "user_id", userID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	owner, err := s.lockRepo.Acquire(ctx, room.ID, s.cfg.RoomLockTTL)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomLocked) {
			return nil, apperrors.Conflict("Room is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(context.WithoutCancel(ctx), room.ID, owner); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", room.ID, "error", releaseErr)
		}
	}()

	// Nothing may be written after the lock could have expired.
	lockedCtx, cancel := context.WithTimeout(ctx, s.cfg.RoomLockTTL)
	defer cancel()

	booking := model.NewBooking(req, room.ID, user.ID)
	for attempt := 1; ; attempt++ {
		err = s.repo.ExecuteTransaction(lockedCtx, func(txCtx context.Context) error {
			return s.insertIfAvailable(txCtx, booking)
		})
		if err == nil || !errors.Is(err, bookingserrors.ErrDuplicateConfirmationCode) || attempt == maxCodeAttempts {
			break
		}
		s.cfg.Log.Warn("Confirmation code collision, retrying", "room_id", room.ID, "attempt", attempt)
	}
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking", "room_id", room.ID, "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"check_in_date", booking.CheckInDate.String(),
		"check_out_date", booking.CheckOutDate.String(),
	)
	s.publisher.Publish(ctx, events.TypeBookingCreated, booking)

	return &model.BookingConfirmation{
		BookingID:        booking.ID,
		ConfirmationCode: booking.ConfirmationCode,
	}, nil
}

// insertIfAvailable runs the conflict check and the write in one transaction.
// The room is looked up again so a booking never outlives a concurrent room delete.
func (s *bookingService) insertIfAvailable(ctx context.Context, booking *model.Booking) error {
	if _, err := s.rooms.FindByID(ctx, booking.RoomID); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Room", booking.RoomID)
		}
		return apperrors.Internal("Failed to retrieve room", err)
	}

	existing, err := s.repo.FindByRoomID(ctx, booking.RoomID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if !availability.IsRoomAvailable(booking.Range(), availability.Ranges(existing)) {
		return apperrors.Conflict("Room not available for the selected date range")
	}

	code, err := s.newCode()
	if err != nil {
		return apperrors.Internal("Failed to generate confirmation code", err)
	}
	booking.ConfirmationCode = code

	return s.repo.Create(ctx, booking)
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByConfirmationCode(ctx context.Context, code string) (*model.BookingDetails, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("Confirmation code cannot be empty")
	}

	booking, err := s.repo.FindByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", code)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	details := &model.BookingDetails{Booking: booking}

	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	switch {
	case err == nil:
		details.Room = room
	case !errors.Is(err, roomserrors.ErrNotFound):
		return nil, apperrors.Internal("Failed to retrieve booked room", err)
	}

	user, err := s.users.FindByID(ctx, booking.UserID)
	switch {
	case err == nil:
		details.User = user.View()
	case !errors.Is(err, userserrors.ErrNotFound):
		return nil, apperrors.Internal("Failed to retrieve booking owner", err)
	}

	return details, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var cancelled *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound), errors.Is(err, bookingserrors.ErrInvalidID):
			return apperrors.NotFoundWithID("Booking", id)
		default:
			s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
			return apperrors.Internal("Failed to cancel booking", err)
		}
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "room_id", cancelled.RoomID)
	s.publisher.Publish(ctx, events.TypeBookingCancelled, cancelled)
	return nil
}
