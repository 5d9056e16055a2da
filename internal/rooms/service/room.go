package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	roomserrors "hotelbooking/internal/rooms/errors"
	"hotelbooking/internal/rooms/repository"
	"hotelbooking/internal/rooms/validator"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/sanitizer"
	"hotelbooking/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomService interface {
	Create(ctx context.Context, input *model.RoomInput) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	GetTypes(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*model.RoomDetails, error)
	GetAllAvailable(ctx context.Context) ([]*model.Room, error)
	GetAvailableByDateAndType(ctx context.Context, query *model.AvailabilityQuery) ([]*model.Room, error)
	Update(ctx context.Context, id string, input *model.RoomInput) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

// BookingStore is the part of the booking repository rooms depend on.
type BookingStore interface {
	FindByRoomID(ctx context.Context, roomID string) ([]*model.Booking, error)
	DeleteByRoomID(ctx context.Context, roomID string) (int64, error)
	BookedRoomIDs(ctx context.Context) ([]string, error)
	RoomIDsBookedBetween(ctx context.Context, checkIn, checkOut model.Date) ([]string, error)
}

// RoomLocker is the per-room lock bookings take before writing.
type RoomLocker interface {
	Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error)
	Release(ctx context.Context, roomID, owner string) error
}

type roomService struct {
	repo      repository.RoomRepository
	bookings  BookingStore
	locks     RoomLocker
	storage   storage.ObjectStorage
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	bookings BookingStore,
	locks RoomLocker,
	objectStorage storage.ObjectStorage,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	if objectStorage == nil {
		objectStorage = storage.Disabled{}
	}
	return &roomService{
		repo:      repo,
		bookings:  bookings,
		locks:     locks,
		storage:   objectStorage,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, input *model.RoomInput) (*model.Room, error) {
	if input == nil {
		return nil, apperrors.InvalidInput("Room details are required")
	}
	s.sanitize(input)

	if err := s.validator.ValidateCreate(input); err != nil {
		s.cfg.Log.Warn("Room validation failed", "room_type", input.RoomType, "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	price, err := primitive.ParseDecimal128(input.RoomPrice)
	if err != nil {
		return nil, apperrors.Validation("Room validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	photoURL, err := s.upload(ctx, input.Photo)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		RoomType:    input.RoomType,
		RoomPrice:   price,
		PhotoURL:    photoURL,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "room_type", room.RoomType, "error", err)
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"room_type", room.RoomType,
		"room_price", room.RoomPrice.String(),
	)
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) GetTypes(ctx context.Context) ([]string, error) {
	types, err := s.repo.FindTypes(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list room types", "error", err)
		return nil, apperrors.Internal("Failed to retrieve room types", err)
	}
	return types, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.RoomDetails, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByRoomID(ctx, room.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to get room bookings", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room bookings", err)
	}

	return &model.RoomDetails{Room: room, Bookings: bookings}, nil
}

// GetAllAvailable returns rooms that have no booking at all.
func (s *roomService) GetAllAvailable(ctx context.Context) ([]*model.Room, error) {
	booked, err := s.bookings.BookedRoomIDs(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list booked rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve available rooms", err)
	}

	rooms, err := s.repo.FindExcluding(ctx, booked, "")
	if err != nil {
		s.cfg.Log.Error("Failed to list available rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve available rooms", err)
	}
	return rooms, nil
}

// GetAvailableByDateAndType excludes every room with a booking touching the
// inclusive window [check-in, check-out].
func (s *roomService) GetAvailableByDateAndType(ctx context.Context, query *model.AvailabilityQuery) ([]*model.Room, error) {
	if query == nil || query.CheckInDate.IsZero() || query.CheckOutDate.IsZero() || strings.TrimSpace(query.RoomType) == "" {
		return nil, apperrors.InvalidInput("Please provide values for all fields (check_in_date, check_out_date, room_type)")
	}
	if query.CheckOutDate.Before(query.CheckInDate) {
		return nil, apperrors.Validation("Check-out date must not be before check-in date", map[string]any{
			"check_in_date":  query.CheckInDate.String(),
			"check_out_date": query.CheckOutDate.String(),
		})
	}

	booked, err := s.bookings.RoomIDsBookedBetween(ctx, query.CheckInDate, query.CheckOutDate)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms booked in range",
			"check_in_date", query.CheckInDate.String(),
			"check_out_date", query.CheckOutDate.String(),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve available rooms", err)
	}

	rooms, err := s.repo.FindExcluding(ctx, booked, sanitizer.NormalizeRoomType(query.RoomType))
	if err != nil {
		s.cfg.Log.Error("Failed to list available rooms by type", "room_type", query.RoomType, "error", err)
		return nil, apperrors.Internal("Failed to retrieve available rooms", err)
	}
	return rooms, nil
}

func (s *roomService) Update(ctx context.Context, id string, input *model.RoomInput) (*model.Room, error) {
	if input == nil {
		input = &model.RoomInput{}
	}
	s.sanitize(input)

	if err := s.validator.ValidateUpdate(input); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.findRoom(ctx, id); err != nil {
		return nil, err
	}

	update := &repository.RoomUpdate{}
	if input.RoomType != "" {
		update.RoomType = &input.RoomType
	}
	if input.Description != "" {
		update.Description = &input.Description
	}
	if input.RoomPrice != "" {
		price, err := primitive.ParseDecimal128(input.RoomPrice)
		if err != nil {
			return nil, apperrors.Validation("Room validation failed", map[string]any{
				"error": err.Error(),
			})
		}
		update.RoomPrice = &price
	}
	if input.Photo != nil && len(input.Photo.Data) > 0 {
		photoURL, err := s.upload(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		update.PhotoURL = &photoURL
	}

	room, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id, "photo_replaced", update.PhotoURL != nil)
	return room, nil
}

// Delete removes the room and all of its bookings in one transaction. It holds
// the room lock so no booking for the room is written meanwhile.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	owner, err := s.locks.Acquire(ctx, id, s.cfg.RoomLockTTL)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomLocked) {
			return apperrors.Conflict("Room is currently being booked. Please try again.")
		}
		return apperrors.Internal("Failed to acquire room lock", err)
	}
	defer func() {
		if releaseErr := s.locks.Release(context.WithoutCancel(ctx), id, owner); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", id, "error", releaseErr)
		}
	}()

	var removedBookings int64
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		n, err := s.bookings.DeleteByRoomID(txCtx, id)
		if err != nil {
			return err
		}
		removedBookings = n
		return nil
	})
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id, "bookings_removed", removedBookings)
	return nil
}

func (s *roomService) findRoom(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to get room by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *roomService) upload(ctx context.Context, photo *model.Upload) (string, error) {
	url, err := s.storage.Put(ctx, photo.Filename, photo.ContentType, photo.Data)
	if err != nil {
		if apperrors.IsAppError(err) {
			return "", err
		}
		s.cfg.Log.Error("Failed to upload room photo", "filename", photo.Filename, "error", err)
		return "", apperrors.Internal("Failed to upload room photo", err)
	}
	return url, nil
}

func (s *roomService) sanitize(input *model.RoomInput) {
	input.RoomType = sanitizer.NormalizeRoomType(input.RoomType)
	input.RoomPrice = strings.TrimSpace(input.RoomPrice)
	input.Description = sanitizer.NormalizeDescription(input.Description)
}
