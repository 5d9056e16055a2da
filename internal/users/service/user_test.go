package service

import (
	"context"
	"errors"
	"testing"

	roomserrors "hotelbooking/internal/rooms/errors"
	userserrors "hotelbooking/internal/users/errors"
	"hotelbooking/pkg/config"
	mongotx "hotelbooking/pkg/db/mongo"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	users     map[string]*model.User
	deleted   []string
	findAllFn func(limit int, offset int64) ([]*model.User, error)
}

func (m *mockUserRepository) Create(context.Context, *model.User) error { return nil }

func (m *mockUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	if id == "bad" {
		return nil, userserrors.ErrInvalidID
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockUserRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.User, error) {
	if m.findAllFn != nil {
		return m.findAllFn(limit, offset)
	}
	var out []*model.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Count(context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return userserrors.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type mockBookingStore struct {
	byUser     map[string][]*model.Booking
	deletedFor []string
}

func (m *mockBookingStore) FindByUserID(_ context.Context, userID string) ([]*model.Booking, error) {
	return m.byUser[userID], nil
}

func (m *mockBookingStore) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	m.deletedFor = append(m.deletedFor, userID)
	return int64(len(m.byUser[userID])), nil
}

type mockRoomFinder struct {
	rooms   map[string]*model.Room
	lookups int
}

func (m *mockRoomFinder) FindByID(_ context.Context, id string) (*model.Room, error) {
	m.lookups++
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, roomserrors.ErrNotFound
}

type userFixture struct {
	repo     *mockUserRepository
	bookings *mockBookingStore
	rooms    *mockRoomFinder
	svc      UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		repo: &mockUserRepository{users: map[string]*model.User{
			"u1": {ID: "u1", Email: "ada@example.com", Name: "Ada", Role: model.RoleUser, PasswordHash: "hash"},
			"u2": {ID: "u2", Email: "root@example.com", Name: "Root", Role: model.RoleAdmin, PasswordHash: "hash"},
		}},
		bookings: &mockBookingStore{byUser: map[string][]*model.Booking{}},
		rooms:    &mockRoomFinder{rooms: map[string]*model.Room{"r1": {ID: "r1", RoomType: "Suite"}}},
	}
	f.svc = NewUserService(f.repo, f.bookings, f.rooms, &config.Config{Log: logger.Nop()})
	return f
}

func TestGetByID(t *testing.T) {
	f := newUserFixture()

	view, err := f.svc.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", view.Email)
	assert.Equal(t, model.RoleUser, view.Role)

	for _, id := range []string{"missing", "bad"} {
		_, err := f.svc.GetByID(context.Background(), id)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), id)
	}
}

func TestGetByEmail(t *testing.T) {
	f := newUserFixture()

	view, err := f.svc.GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", view.ID)

	_, err = f.svc.GetByEmail(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = f.svc.GetByEmail(context.Background(), "ghost@example.com")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetAll(t *testing.T) {
	f := newUserFixture()

	views, total, err := f.svc.GetAll(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(2), total)

	f.repo.findAllFn = func(int, int64) ([]*model.User, error) { return nil, errors.New("cursor closed") }
	_, _, err = f.svc.GetAll(context.Background(), 50, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestGetBookingHistory(t *testing.T) {
	f := newUserFixture()
	f.bookings.byUser["u1"] = []*model.Booking{
		{ID: "b1", RoomID: "r1", UserID: "u1"},
		{ID: "b2", RoomID: "r1", UserID: "u1"},
		{ID: "b3", RoomID: "gone", UserID: "u1"},
	}

	view, err := f.svc.GetBookingHistory(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, view.Bookings, 3)
	assert.Equal(t, "Suite", view.Bookings[0].Room.RoomType)
	assert.Same(t, view.Bookings[0].Room, view.Bookings[1].Room)
	assert.Nil(t, view.Bookings[2].Room)
	assert.Equal(t, 2, f.rooms.lookups)
}

func TestGetBookingHistory_NoBookings(t *testing.T) {
	f := newUserFixture()

	view, err := f.svc.GetBookingHistory(context.Background(), "u2")

	require.NoError(t, err)
	assert.NotNil(t, view.Bookings)
	assert.Empty(t, view.Bookings)
}

func TestDelete(t *testing.T) {
	t.Run("cascades to bookings", func(t *testing.T) {
		f := newUserFixture()
		f.bookings.byUser["u1"] = []*model.Booking{{ID: "b1"}}

		require.NoError(t, f.svc.Delete(context.Background(), "u1"))

		assert.Equal(t, []string{"u1"}, f.repo.deleted)
		assert.Equal(t, []string{"u1"}, f.bookings.deletedFor)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserFixture()
		err := f.svc.Delete(context.Background(), "missing")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
		assert.Empty(t, f.bookings.deletedFor)
	})
}
