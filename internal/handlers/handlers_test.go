package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaul/internal/engine"
	"kaul/internal/middleware"
	"kaul/internal/store"
	"kaul/internal/utils"
	"kaul/internal/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, st, metrics, logger)

	hub := websocket.NewHub(logger)
	go hub.Run()

	return NewServer(system, eng, metrics, logger, hub)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleGetSubjects(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleGetSubjects()

	req := httptest.NewRequest(http.MethodGet, "/subjects", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp SubjectsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Subjects, 4)
	assert.Len(t, resp.UserProfiles, 4)
	assert.Empty(t, resp.Users)

	// Only GET is accepted.
	req = httptest.NewRequest(http.MethodPost, "/subjects", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleVote(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleVote()

	w := postJSON(t, handler, "/vote", VoteRequest{ID: 1, VoteType: "up", UserID: "user1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp VoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Vote recorded successfully", resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, 90.0, resp.User.Points)
	require.Len(t, resp.Subjects, 4)
	assert.Equal(t, 1, resp.Subjects[0].Votes.Up)
}

func TestHandleVoteBusinessErrors(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleVote()

	// Duplicate same-direction vote.
	postJSON(t, handler, "/vote", VoteRequest{ID: 1, VoteType: "up", UserID: "user1"})
	w := postJSON(t, handler, "/vote", VoteRequest{ID: 1, VoteType: "up", UserID: "user1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp VoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "You have already voted this way on this subject", resp.Error)

	// Unknown subject.
	w = postJSON(t, handler, "/vote", VoteRequest{ID: 99, VoteType: "up", UserID: "user1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp = VoteResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Subject not found", resp.Error)
}

func TestHandleVoteInvalidRequests(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleVote()

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/vote", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing user id.
	w = postJSON(t, handler, "/vote", VoteRequest{ID: 1, VoteType: "up"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bad direction.
	w = postJSON(t, handler, "/vote", VoteRequest{ID: 1, VoteType: "sideways", UserID: "user1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong method.
	req = httptest.NewRequest(http.MethodGet, "/vote", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleCounterIncrement(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleCounterIncrement()

	w := postJSON(t, handler, "/api/v1/counter/increment", IncrementCounterRequest{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)

	w = postJSON(t, handler, "/api/v1/counter/increment", IncrementCounterRequest{})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	// Counters are independent.
	w = postJSON(t, handler, "/api/v1/counter/increment", IncrementCounterRequest{CounterID: "other"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestHandleLogin(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleLogin()

	w := postJSON(t, handler, "/login", LoginRequest{Username: "user1", Password: "whatever"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "user1", resp.UserID)
	require.NotEmpty(t, resp.Token)

	claims, err := middleware.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)

	// Same user, same token.
	w2 := postJSON(t, handler, "/login", LoginRequest{Username: "user1", Password: "different"})
	var resp2 LoginResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.Equal(t, resp.Token, resp2.Token)
}

func TestHandleLoginDefaultsUser(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleLogin()

	w := postJSON(t, handler, "/login", LoginRequest{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "demo", resp.UserID)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t)
	handler := server.HandleHealth()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status   string `json:"status"`
		Subjects int    `json:"subjects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 4, resp.Subjects)
}
