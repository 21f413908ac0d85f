package handlers

import (
	"encoding/json"
	"net/http"

	"kaul/internal/engine/actors"
	"kaul/internal/utils"
)

// IncrementCounterRequest is the body of the legacy counter endpoint.
type IncrementCounterRequest struct {
	CounterID string `json:"counterId"`
}

// HandleCounterIncrement bumps a named counter. This is the legacy
// counter service kept for older clients; it predates the voting API.
func (s *Server) HandleCounterIncrement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req IncrementCounterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCounterActor(), &actors.IncrementCounterMsg{
			CounterID: req.CounterID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to increment counter"})
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			s.Metrics.IncrementErrors()
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": appErr.Error()})
			return
		}

		counterResult, ok := result.(*actors.CounterResult)
		if !ok {
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   counterResult.Count,
		})
	}
}
