package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/identity"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/token"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte(strings.Repeat("k", 32))

type mockIdentityStore struct {
	FindByEmailFunc func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockIdentityStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, apperrors.NotFound("User")
}

func storeWith(users ...*model.User) *mockIdentityStore {
	return &mockIdentityStore{
		FindByEmailFunc: func(_ context.Context, email string) (*model.User, error) {
			for _, u := range users {
				if u.Email == email {
					return u, nil
				}
			}
			return nil, apperrors.NotFound("User")
		},
	}
}

// captureIdentity records the identity the downstream handler observed.
func captureIdentity(got **identity.Identity, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if id, ok := identity.FromContext(r.Context()); ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthentication(t *testing.T) {
	now := time.Now()
	codec, err := token.NewCodec(testKey)
	require.NoError(t, err)

	guest := &model.User{ID: "u1", Email: "guest@example.com", Role: model.RoleUser}

	valid, err := codec.Issue(guest.Email, now)
	require.NoError(t, err)
	expired, err := codec.Issue(guest.Email, now.Add(-8*24*time.Hour))
	require.NoError(t, err)
	unknown, err := codec.Issue("ghost@example.com", now)
	require.NoError(t, err)

	tests := []struct {
		name         string
		path         string
		header       string
		wantIdentity bool
	}{
		{name: "public path without header", path: "/rooms/all", wantIdentity: false},
		{name: "public path ignores token", path: "/auth/login", header: "Bearer " + valid, wantIdentity: false},
		{name: "protected path without header", path: "/bookings/all", wantIdentity: false},
		{name: "valid token attaches identity", path: "/users/get-logged-in-profile-info", header: "Bearer " + valid, wantIdentity: true},
		{name: "expired token", path: "/bookings/all", header: "Bearer " + expired, wantIdentity: false},
		{name: "unknown subject", path: "/bookings/all", header: "Bearer " + unknown, wantIdentity: false},
		{name: "garbage token", path: "/bookings/all", header: "Bearer not-a-jwt", wantIdentity: false},
		{name: "wrong scheme", path: "/bookings/all", header: "Basic " + valid, wantIdentity: false},
		{name: "blank bearer", path: "/bookings/all", header: "Bearer   ", wantIdentity: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *identity.Identity
			var called bool
			handler := Authentication(codec, storeWith(guest), DefaultPublicPaths, logger.Nop())(captureIdentity(&got, &called))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			require.NotPanics(t, func() { handler.ServeHTTP(rec, req) })

			assert.True(t, called, "request must always reach the next handler")
			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.wantIdentity {
				require.NotNil(t, got)
				assert.Equal(t, "u1", got.UserID)
				assert.Equal(t, model.RoleUser, got.Role)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestAuthentication_KeepsExistingIdentity(t *testing.T) {
	codec, err := token.NewCodec(testKey)
	require.NoError(t, err)

	existing := &identity.Identity{UserID: "u9", Email: "ops@example.com", Role: model.RoleAdmin}
	var got *identity.Identity
	var called bool
	handler := Authentication(codec, &mockIdentityStore{}, DefaultPublicPaths, logger.Nop())(captureIdentity(&got, &called))

	req := httptest.NewRequest(http.MethodGet, "/bookings/all", nil)
	req = req.WithContext(identity.NewContext(req.Context(), existing))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Same(t, existing, got)
}

func TestRequireAuthority(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name       string
		id         *identity.Identity
		roles      []model.Role
		wantStatus int
	}{
		{name: "no identity", roles: []model.Role{model.RoleAdmin}, wantStatus: http.StatusUnauthorized},
		{name: "wrong role", id: &identity.Identity{Role: model.RoleUser}, roles: []model.Role{model.RoleAdmin}, wantStatus: http.StatusForbidden},
		{name: "matching role", id: &identity.Identity{Role: model.RoleAdmin}, roles: []model.Role{model.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "any listed role", id: &identity.Identity{Role: model.RoleUser}, roles: []model.Role{model.RoleAdmin, model.RoleUser}, wantStatus: http.StatusOK},
		{name: "authenticated only", id: &identity.Identity{Role: model.RoleUser}, wantStatus: http.StatusOK},
		{name: "authenticated only without identity", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookings/all", nil)
			if tt.id != nil {
				req = req.WithContext(identity.NewContext(req.Context(), tt.id))
			}
			rec := httptest.NewRecorder()

			RequireAuthority(ok, tt.roles...)(rec, req, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	raw, ok := bearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", raw)

	_, ok = bearerToken("bearer abc")
	assert.False(t, ok)

	_, ok = bearerToken("")
	assert.False(t, ok)
}
