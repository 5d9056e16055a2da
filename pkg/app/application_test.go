package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "hotelbooking/docs"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type fakeVerifier struct{}

func (fakeVerifier) ExtractSubject(token string) (string, error) {
	if token != "good" {
		return "", errors.New("bad token")
	}
	return "admin@example.com", nil
}

func (fakeVerifier) IsValid(token, email string) bool {
	return token == "good" && email == "admin@example.com"
}

type fakeStore struct{}

func (fakeStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return &model.User{ID: "u1", Email: email, Role: model.RoleAdmin}, nil
}

type adminOnly struct{}

func (adminOnly) RegisterRoutes(router *httprouter.Router) {
	router.GET("/admin/ping", middleware.RequireAuthority(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	}, model.RoleAdmin))
}

func newTestApp(t *testing.T, pingErr error) *Application {
	t.Helper()
	cfg := &config.Config{
		Port:               "8080",
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Minute,
		MaxRequestSize:     1 << 20,
		MaxUploadSize:      5 << 20,
		CORSAllowedOrigins: []string{"*"},
		Log:                logger.Nop(),
	}
	a := NewApplication(cfg, WithReadinessCheck(fakePinger{err: pingErr}))
	a.SetApp(Auth{Verifier: fakeVerifier{}, Store: fakeStore{}}, adminOnly{})
	t.Cleanup(func() { a.idempotencyStore.Stop() })
	return a
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	rec := serve(newTestApp(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, HealthResponse{Status: "OK", Service: "Hotel Booking API"}, body)
}

func TestHealthAndReady(t *testing.T) {
	a := newTestApp(t, nil)
	assert.Equal(t, http.StatusOK, serve(a, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(a, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)

	down := newTestApp(t, errors.New("server selection timeout"))
	rec := serve(down, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"error"`)
}

func TestAuthenticationIsWired(t *testing.T) {
	a := newTestApp(t, nil)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(a, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSwaggerDocument(t *testing.T) {
	rec := serve(newTestApp(t, nil), httptest.NewRequest(http.MethodGet, SwaggerDocPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	info := doc["info"].(map[string]any)
	assert.Equal(t, "Hotel Booking API", info["title"])
	assert.Contains(t, doc["paths"], "/bookings/book-room/{roomId}/{userId}")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/rooms/all", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := serve(newTestApp(t, nil), req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
