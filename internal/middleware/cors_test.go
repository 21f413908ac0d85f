package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCORSPreflight(t *testing.T) {
	called := false
	handler := ApplyCORS(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, DefaultCORSConfig(nil))

	req := httptest.NewRequest(http.MethodOptions, "/vote", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// Preflight is answered directly and never reaches the handler.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.False(t, called)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestApplyCORSAllowedOrigins(t *testing.T) {
	handler := ApplyCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, DefaultCORSConfig([]string{"http://allowed.test"}))

	req := httptest.NewRequest(http.MethodGet, "/subjects", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/subjects", nil)
	req.Header.Set("Origin", "http://denied.test")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplyCORSWildcardWithoutOrigin(t *testing.T) {
	handler := ApplyCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/subjects", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
