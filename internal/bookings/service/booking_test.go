package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/validator"
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

// ────────────────────────────────────────────────
// In-memory booking repository
// ────────────────────────────────────────────────

type fakeBookingRepository struct {
	mu       sync.Mutex
	bookings []*model.Booking
	creates  int
	createFn func(b *model.Booking) error
}

func (f *fakeBookingRepository) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createFn != nil {
		if err := f.createFn(b); err != nil {
			return err
		}
	}
	b.ID = fmt.Sprintf("b%d", len(f.bookings)+1)
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (f *fakeBookingRepository) FindByConfirmationCode(_ context.Context, code string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ConfirmationCode == code {
			return b, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (f *fakeBookingRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Booking{}, f.bookings...), nil
}

func (f *fakeBookingRepository) FindByRoomID(_ context.Context, roomID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepository) FindByUserID(context.Context, string) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookings {
		if b.ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

func (f *fakeBookingRepository) DeleteByRoomID(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeBookingRepository) DeleteByUserID(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeBookingRepository) BookedRoomIDs(context.Context) ([]string, error)        { return nil, nil }

func (f *fakeBookingRepository) RoomIDsBookedBetween(context.Context, model.Date, model.Date) ([]string, error) {
	return nil, nil
}

func (f *fakeBookingRepository) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.bookings)), nil
}

func (f *fakeBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return mongotx.NoopTransactionManager{}.ExecuteTransaction(ctx, fn)
}

// ────────────────────────────────────────────────
// Func-field mocks
// ────────────────────────────────────────────────

type mockRoomFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockRoomFinder) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return m.findByIDFunc(ctx, id)
}

type mockUserFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

type mockRoomLockRepository struct {
	acquireFunc func(ctx context.Context, roomID string, ttl time.Duration) (string, error)
	released    []string
}

func (m *mockRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, roomID, ttl)
	}
	return "owner-" + roomID, nil
}

func (m *mockRoomLockRepository) Release(_ context.Context, roomID, owner string) error {
	m.released = append(m.released, roomID+"/"+owner)
	return nil
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ *model.Booking) {
	p.events = append(p.events, eventType)
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

type fixture struct {
	rooms     *mockRoomFinder
	repo      *fakeBookingRepository
	locks     *mockRoomLockRepository
	publisher *recordingPublisher
	svc       *bookingService
	today     model.Date
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Nop()
	cfg := &config.Config{Log: log, RoomLockTTL: 10 * time.Second}

	rooms := &mockRoomFinder{findByIDFunc: func(_ context.Context, id string) (*model.Room, error) {
		if id == "1" {
			return &model.Room{ID: "1", RoomType: "Suite"}, nil
		}
		return nil, roomserrors.ErrNotFound
	}}
	users := &mockUserFinder{findByIDFunc: func(_ context.Context, id string) (*model.User, error) {
		if id == "1" {
			return &model.User{ID: "1", Email: "guest@example.com", Role: model.RoleUser}, nil
		}
		return nil, userserrors.ErrNotFound
	}}

	f := &fixture{
		rooms:     rooms,
		repo:      &fakeBookingRepository{},
		locks:     &mockRoomLockRepository{},
		publisher: &recordingPublisher{},
		today:     model.NewDate(2030, time.June, 10),
	}
	svc := NewBookingService(f.repo, f.locks, rooms, users, validator.NewBookingValidator(log), f.publisher, cfg).(*bookingService)
	svc.today = func() model.Date { return f.today }
	f.svc = svc
	return f
}

func (f *fixture) request(inOffset, outOffset int) *model.BookingRequest {
	return &model.BookingRequest{
		CheckInDate:   f.today.AddDays(inOffset),
		CheckOutDate:  f.today.AddDays(outOffset),
		NumOfAdults:   2,
		NumOfChildren: 1,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, code), "want %s, got %v", code, err)
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)

	confirmation, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{10}$`), confirmation.ConfirmationCode)
	require.Len(t, f.repo.bookings, 1)
	saved := f.repo.bookings[0]
	assert.Equal(t, "1", saved.RoomID)
	assert.Equal(t, "1", saved.UserID)
	assert.Equal(t, 3, saved.TotalNumOfGuests)
	assert.Equal(t, saved.ID, confirmation.BookingID)
	assert.Equal(t, []string{"1/owner-1"}, f.locks.released)
	assert.Equal(t, []string{"booking.created"}, f.publisher.events)
}

func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		roomID   string
		userID   string
		req      func(f *fixture) *model.BookingRequest
		seed     func(f *fixture)
		wantCode string
	}{
		{
			name:     "room not found",
			roomID:   "999",
			userID:   "1",
			req:      func(f *fixture) *model.BookingRequest { return f.request(1, 3) },
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "user not found",
			roomID:   "1",
			userID:   "42",
			req:      func(f *fixture) *model.BookingRequest { return f.request(1, 3) },
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "check-out before check-in",
			roomID:   "1",
			userID:   "1",
			req:      func(f *fixture) *model.BookingRequest { return f.request(5, 3) },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "check-out not in the future",
			roomID:   "1",
			userID:   "1",
			req:      func(f *fixture) *model.BookingRequest { return f.request(-3, 0) },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:   "no adults",
			roomID: "1",
			userID: "1",
			req: func(f *fixture) *model.BookingRequest {
				r := f.request(1, 3)
				r.NumOfAdults = 0
				return r
			},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:   "missing dates",
			roomID: "1",
			userID: "1",
			req: func(f *fixture) *model.BookingRequest {
				return &model.BookingRequest{NumOfAdults: 1}
			},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:   "overlapping booking",
			roomID: "1",
			userID: "1",
			req:    func(f *fixture) *model.BookingRequest { return f.request(2, 4) },
			seed: func(f *fixture) {
				f.repo.bookings = append(f.repo.bookings, &model.Booking{
					ID: "existing", RoomID: "1",
					CheckInDate: f.today.AddDays(1), CheckOutDate: f.today.AddDays(3),
				})
			},
			wantCode: apperrors.CodeConflict,
		},
		{
			name:   "room locked",
			roomID: "1",
			userID: "1",
			req:    func(f *fixture) *model.BookingRequest { return f.request(1, 3) },
			seed: func(f *fixture) {
				f.locks.acquireFunc = func(context.Context, string, time.Duration) (string, error) {
					return "", bookingserrors.ErrRoomLocked
				}
			},
			wantCode: apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.seed != nil {
				tt.seed(f)
			}
			before := len(f.repo.bookings)

			_, err := f.svc.Create(context.Background(), tt.roomID, tt.userID, tt.req(f))

			assertCode(t, err, tt.wantCode)
			assert.Zero(t, f.repo.creates, "no write on failure")
			assert.Len(t, f.repo.bookings, before)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestCreate_DisjointLaterRangeIsAccepted(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), "1", "1", f.request(5, 7))

	require.NoError(t, err)
	assert.Len(t, f.repo.bookings, 2)
}

func TestCreate_RetriesCodeCollision(t *testing.T) {
	f := newFixture(t)
	codes := []string{"AAAAAAAAAA", "AAAAAAAAAA", "BBBBBBBBBB"}
	f.svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	f.repo.createFn = func(b *model.Booking) error {
		for _, existing := range f.repo.bookings {
			if existing.ConfirmationCode == b.ConfirmationCode {
				return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateConfirmationCode, b.ConfirmationCode)
			}
		}
		return nil
	}

	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))
	require.NoError(t, err)

	confirmation, err := f.svc.Create(context.Background(), "1", "1", f.request(10, 12))
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBB", confirmation.ConfirmationCode)
}

func TestCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	f.repo.createFn = func(b *model.Booking) error {
		return bookingserrors.ErrDuplicateConfirmationCode
	}

	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))

	assertCode(t, err, apperrors.CodeInternal)
	assert.Equal(t, maxCodeAttempts, f.repo.creates)
}

func TestCreate_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.repo.createFn = func(*model.Booking) error { return errors.New("write concern failed") }

	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))

	assertCode(t, err, apperrors.CodeInternal)
	assert.Equal(t, []string{"1/owner-1"}, f.locks.released)
}

func TestCreate_RoomDeletedBeforeInsert(t *testing.T) {
	f := newFixture(t)
	lookups := 0
	f.rooms.findByIDFunc = func(ctx context.Context, id string) (*model.Room, error) {
		lookups++
		if lookups == 1 {
			return &model.Room{ID: id, RoomType: "Suite"}, nil
		}
		return nil, roomserrors.ErrNotFound
	}

	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))

	assertCode(t, err, apperrors.CodeNotFound)
	assert.Empty(t, f.repo.bookings)
	assert.Equal(t, []string{"1/owner-1"}, f.locks.released)
}

func TestCreate_WritesFinishWithinLockTTL(t *testing.T) {
	f := newFixture(t)
	var deadline time.Time
	var bounded bool
	f.rooms.findByIDFunc = func(ctx context.Context, id string) (*model.Room, error) {
		deadline, bounded = ctx.Deadline()
		return &model.Room{ID: id, RoomType: "Suite"}, nil
	}

	start := time.Now()
	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))

	require.NoError(t, err)
	require.True(t, bounded, "the transaction must run under a deadline")
	assert.WithinDuration(t, start.Add(f.svc.cfg.RoomLockTTL), deadline, time.Second)
}

// ────────────────────────────────────────────────
// Lookup and cancel
// ────────────────────────────────────────────────

func TestGetByConfirmationCode(t *testing.T) {
	f := newFixture(t)
	confirmation, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))
	require.NoError(t, err)

	details, err := f.svc.GetByConfirmationCode(context.Background(), confirmation.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, "Suite", details.Room.RoomType)
	assert.Equal(t, "guest@example.com", details.User.Email)

	_, err = f.svc.GetByConfirmationCode(context.Background(), "NOPE000000")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	confirmation, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), confirmation.BookingID))
	assert.Empty(t, f.repo.bookings)
	assert.Equal(t, []string{"booking.created", "booking.cancelled"}, f.publisher.events)

	assertCode(t, f.svc.Cancel(context.Background(), confirmation.BookingID), apperrors.CodeNotFound)
}

func TestGetAll(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "1", "1", f.request(1, 3))
	require.NoError(t, err)

	bookings, total, err := f.svc.GetAll(context.Background(), 50, 0)

	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, int64(1), total)
}

func TestNewConfirmationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := NewConfirmationCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{10}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 95)
}
