package handlers

import (
	"encoding/json"
	"net/http"

	"kaul/internal/middleware"
)

// LoginRequest represents a request to log in a user. Credentials are
// accepted but not checked; there is no authentication model.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a response to a login request
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"userId"`
}

// HandleLogin is the login stub: any credentials yield the demo token.
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, LoginResponse{Success: false, Error: "Invalid request"})
			return
		}

		userID := req.Username
		if userID == "" {
			userID = "demo"
		}

		token, err := middleware.GenerateToken(userID)
		if err != nil {
			s.Logger.Error("failed to generate token", "error", err)
			s.writeJSON(w, http.StatusInternalServerError, LoginResponse{Success: false, Error: "Failed to generate token"})
			return
		}

		s.writeJSON(w, http.StatusOK, LoginResponse{
			Success: true,
			Token:   token,
			UserID:  userID,
		})
	}
}
