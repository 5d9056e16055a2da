package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpClient_SendsTokenAndJSON(t *testing.T) {
	var gotAuth, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":200,"message":"successful","data":{"id":"b1"}}`))
	}))
	defer server.Close()

	base := NewHttpClient(server.URL)
	resp, err := base.WithToken("abc").POST("/bookings/book-room/r1/u1", map[string]int{"num_of_adults": 2})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"num_of_adults":2}`, gotBody)
	assert.Empty(t, base.Token)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, resp.DecodeData(&data))
	assert.Equal(t, "b1", data.ID)
}

func TestHttpClient_GetErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status_code":409,"message":"Room not available for the selected date range","code":"CONFLICT"}`))
	}))
	defer server.Close()

	resp, err := NewHttpClient(server.URL).GET("/anything")
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Room not available for the selected date range", GetErrorMessage(resp))
}

func TestHttpClient_WaitForHealthy(t *testing.T) {
	ready := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ready.Close()
	assert.NoError(t, NewHttpClient(ready.URL).WaitForHealthy(time.Second))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, NewHttpClient(down.URL).WaitForHealthy(600*time.Millisecond))
}
