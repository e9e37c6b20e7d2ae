package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HusseinMoukalled/meetingroom/pkg/breaker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	reg := breaker.NewRegistry(breaker.Config{
		FailureThreshold:  5,
		RecoveryTimeout:   time.Minute,
		HalfOpenSuccesses: 2,
		IsFailure:         IsFailure,
	}, nil)
	return New("rooms-service", srv.URL, 2*time.Second, reg)
}

func TestClient_GetDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/status/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"room_id":5,"is_available":true}}`))
	})

	res, err := c.Get(context.Background(), "/rooms/status/5")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var payload struct {
		Data struct {
			RoomID      int64 `json:"room_id"`
			IsAvailable bool  `json:"is_available"`
		} `json:"data"`
	}
	require.NoError(t, res.Decode(&payload))
	assert.Equal(t, int64(5), payload.Data.RoomID)
	assert.True(t, payload.Data.IsAvailable)
}

func TestClient_NotFoundIsAResultNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	res, err := c.Get(context.Background(), "/users/ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestClient_ServerErrorsOpenTheBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.Get(context.Background(), "/rooms/status/5")
		require.ErrorIs(t, err, ErrUnavailable, "failure %d", i+1)
	}

	// Sixth call is rejected by the open breaker without hitting the server.
	res, err := c.Get(context.Background(), "/rooms/status/5")
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "circuit open")
}

func TestClient_GetWithAuthForwardsHeader(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.GetWithAuth(context.Background(), "/bookings/user/alice", "Bearer token-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", got)
}

func TestClient_PostSendsJSON(t *testing.T) {
	var contentType string
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	res, err := c.Post(context.Background(), "/rooms/add", map[string]any{"name": "Board Room"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"name":"Board Room"}`, string(body))
}

func TestClient_CancellationIsNotWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Get(ctx, "/rooms/status/5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestIsFailure(t *testing.T) {
	assert.False(t, IsFailure(context.Canceled))
	assert.True(t, IsFailure(&StatusError{StatusCode: 500}))
	assert.True(t, IsFailure(context.DeadlineExceeded))
}
