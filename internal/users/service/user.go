package service

import (
	"context"
	"errors"
	"sync"

	roomserrors "hotelbooking/internal/rooms/errors"
	userserrors "hotelbooking/internal/users/errors"
	"hotelbooking/internal/users/repository"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
)

type UserService interface {
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.UserView, int64, error)
	GetByID(ctx context.Context, id string) (*model.UserView, error)
	GetByEmail(ctx context.Context, email string) (*model.UserView, error)
	GetBookingHistory(ctx context.Context, id string) (*model.UserView, error)
	Delete(ctx context.Context, id string) error
}

// BookingStore is the part of the booking repository users depend on.
type BookingStore interface {
	FindByUserID(ctx context.Context, userID string) ([]*model.Booking, error)
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

type RoomFinder interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type userService struct {
	repo     repository.UserRepository
	bookings BookingStore
	rooms    RoomFinder
	cfg      *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	bookings BookingStore,
	rooms RoomFinder,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:     repo,
		bookings: bookings,
		rooms:    rooms,
		cfg:      cfg,
	}
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.UserView, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views := make([]*model.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, count, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.UserView, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

// GetByEmail backs the profile endpoint; the email comes from the caller's token.
func (s *userService) GetByEmail(ctx context.Context, email string) (*model.UserView, error) {
	if email == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to get user by email", "error", err)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user.View(), nil
}

// GetBookingHistory returns the user with every booking and the booked room.
// Bookings whose room was removed are listed without it.
func (s *userService) GetBookingHistory(ctx context.Context, id string) (*model.UserView, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByUserID(ctx, user.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to get user bookings", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve user bookings", err)
	}

	view := user.View()
	view.Bookings = make([]*model.BookingDetails, 0, len(bookings))
	rooms := make(map[string]*model.Room)
	for _, b := range bookings {
		room, ok := rooms[b.RoomID]
		if !ok {
			room, err = s.rooms.FindByID(ctx, b.RoomID)
			switch {
			case err == nil:
			case errors.Is(err, roomserrors.ErrNotFound), errors.Is(err, roomserrors.ErrInvalidID):
				room = nil
			default:
				s.cfg.Log.Error("Failed to get booked room", "room_id", b.RoomID, "error", err)
				return nil, apperrors.Internal("Failed to retrieve booked room", err)
			}
			rooms[b.RoomID] = room
		}
		view.Bookings = append(view.Bookings, &model.BookingDetails{Booking: b, Room: room})
	}
	return view, nil
}

// Delete removes the user and all of their bookings in one transaction.
func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	var removedBookings int64
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		n, err := s.bookings.DeleteByUserID(txCtx, id)
		if err != nil {
			return err
		}
		removedBookings = n
		return nil
	})
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to delete user", "id", id, "error", err)
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted successfully", "id", id, "bookings_removed", removedBookings)
	return nil
}

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to get user by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}
