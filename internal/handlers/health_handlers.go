package handlers

import (
	"net/http"
	"time"

	"kaul/internal/engine/actors"
)

// HandleHealth reports liveness plus the subject count.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetVoteActor(), &actors.GetCountsMsg{}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get subject count", http.StatusInternalServerError)
			return
		}

		subjectCount, ok := result.(int)
		if !ok {
			http.Error(w, "Failed to get subject count", http.StatusInternalServerError)
			return
		}

		requests, errors := s.Metrics.Counts()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"status":      "healthy",
			"subjects":    subjectCount,
			"requests":    requests,
			"errors":      errors,
			"uptime":      s.Metrics.Uptime().String(),
			"server_time": time.Now(),
		})
	}
}
