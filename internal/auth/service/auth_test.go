package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hotelbooking/internal/auth/validator"
	userserrors "hotelbooking/internal/users/errors"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryUserStore struct {
	users     []*model.User
	createErr error
	findErr   error
}

func (m *memoryUserStore) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = fmt.Sprintf("u%d", len(m.users)+1)
	m.users = append(m.users, user)
	return nil
}

func (m *memoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func (m *memoryUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, userserrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

var fixedNow = time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)

func newAuthFixture(t *testing.T) (*authService, *memoryUserStore, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec([]byte(strings.Repeat("k", token.MinKeyBytes)), token.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	store := &memoryUserStore{}
	log := logger.Nop()
	svc := NewAuthService(store, codec, validator.NewAuthValidator(log), &config.Config{Log: log}).(*authService)
	svc.hashCost = bcrypt.MinCost
	svc.now = func() time.Time { return fixedNow }
	return svc, store, codec
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:        "  Ada   Lovelace ",
		Email:       " Ada@Example.COM ",
		Password:    "s3cret!",
		PhoneNumber: "+34 612 345 678",
	}
}

func TestRegister(t *testing.T) {
	svc, store, _ := newAuthFixture(t)

	view, err := svc.Register(context.Background(), registerRequest())

	require.NoError(t, err)
	assert.Equal(t, "u1", view.ID)
	assert.Equal(t, "ada@example.com", view.Email)
	assert.Equal(t, "Ada Lovelace", view.Name)
	assert.Equal(t, "+34612345678", view.PhoneNumber)
	assert.Equal(t, model.RoleUser, view.Role)

	require.Len(t, store.users, 1)
	stored := store.users[0]
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret!")))
}

func TestRegister_AdminRoleAnyCase(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	req := registerRequest()
	req.Role = "admin"

	view, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, view.Role)
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(store *memoryUserStore)
		mutate    func(req *model.RegisterRequest)
		wantCode  string
		wantInMsg string
	}{
		{
			name: "duplicate email",
			setup: func(store *memoryUserStore) {
				store.users = append(store.users, &model.User{ID: "u0", Email: "ada@example.com"})
			},
			wantCode:  apperrors.CodeInvalidInput,
			wantInMsg: "ada@example.com already exists",
		},
		{
			name:      "duplicate lost race",
			setup:     func(store *memoryUserStore) { store.createErr = userserrors.ErrEmailExists },
			wantCode:  apperrors.CodeInvalidInput,
			wantInMsg: "already exists",
		},
		{
			name:     "invalid email",
			mutate:   func(req *model.RegisterRequest) { req.Email = "not-an-email" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "unknown role",
			mutate:   func(req *model.RegisterRequest) { req.Role = "OWNER" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "store down",
			setup:    func(store *memoryUserStore) { store.findErr = errors.New("no reachable servers") },
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newAuthFixture(t)
			if tt.setup != nil {
				tt.setup(store)
			}
			req := registerRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := svc.Register(context.Background(), req)

			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			if tt.wantInMsg != "" {
				assert.Contains(t, appErr.Message, tt.wantInMsg)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, codec := newAuthFixture(t)
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &model.LoginRequest{Email: "ADA@example.com", Password: "s3cret!"})

	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, result.Role)
	assert.Equal(t, "7 days", result.ExpirationTime)
	assert.True(t, codec.IsValid(result.Token, "ada@example.com"))
}

func TestLogin_ReportsConfiguredLifetime(t *testing.T) {
	codec, err := token.NewCodec([]byte(strings.Repeat("k", token.MinKeyBytes)), token.WithTTL(12*time.Hour))
	require.NoError(t, err)
	log := logger.Nop()
	svc := NewAuthService(&memoryUserStore{}, codec, validator.NewAuthValidator(log), &config.Config{Log: log}).(*authService)
	svc.hashCost = bcrypt.MinCost
	_, err = svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &model.LoginRequest{Email: "ada@example.com", Password: "s3cret!"})

	require.NoError(t, err)
	assert.Equal(t, "12 hours", result.ExpirationTime)
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	tests := []struct {
		name       string
		req        *model.LoginRequest
		wantStatus int
		wantMsg    string
	}{
		{"unknown email", &model.LoginRequest{Email: "ghost@example.com", Password: "s3cret!"}, 404, "User not found"},
		{"wrong password", &model.LoginRequest{Email: "ada@example.com", Password: "guess"}, 401, ""},
		{"missing password", &model.LoginRequest{Email: "ada@example.com"}, 400, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, appErr.Message)
			}
		})
	}
}
