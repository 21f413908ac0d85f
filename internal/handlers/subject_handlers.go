package handlers

import (
	"encoding/json"
	"net/http"

	"kaul/internal/engine/actors"
	"kaul/internal/models"
	"kaul/internal/utils"
)

// VoteRequest represents a request to vote on a subject
type VoteRequest struct {
	ID       int                  `json:"id"`
	VoteType models.VoteDirection `json:"voteType"`
	UserID   string               `json:"userId"`
}

// VoteResponse is the body of every POST /vote reply.
type VoteResponse struct {
	Success  bool                `json:"success"`
	Subjects []*models.Subject   `json:"subjects,omitempty"`
	User     *models.UserAccount `json:"user,omitempty"`
	Message  string              `json:"message,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// SubjectsResponse is the body of a successful GET /subjects reply.
type SubjectsResponse struct {
	Subjects     []*models.Subject              `json:"subjects"`
	Users        map[string]*models.UserAccount `json:"users"`
	UserProfiles []models.Profile               `json:"userProfiles"`
}

// HandleGetSubjects serves the full voting state: subjects with their
// tallies and histories, user accounts, and display profiles.
func (s *Server) HandleGetSubjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetVoteActor(), &actors.GetVotingStateMsg{}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load subjects"})
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			s.Metrics.IncrementErrors()
			s.writeJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{"error": appErr.Message})
			return
		}

		state, ok := result.(*models.VotingState)
		if !ok {
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}

		s.writeJSON(w, http.StatusOK, SubjectsResponse{
			Subjects:     state.Subjects,
			Users:        state.Users,
			UserProfiles: state.Profiles,
		})
	}
}

// HandleVote records a vote and reports the updated subjects plus the
// voter's account. Business-rule failures come back as 400 with their
// literal message; store failures as 500.
func (s *Server) HandleVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, VoteResponse{Success: false, Error: "Invalid request"})
			return
		}

		if req.UserID == "" || !req.VoteType.Valid() {
			s.writeJSON(w, http.StatusBadRequest, VoteResponse{Success: false, Error: "Invalid request"})
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetVoteActor(), &actors.RecordVoteMsg{
			SubjectID: req.ID,
			VoteType:  req.VoteType,
			UserID:    req.UserID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.Metrics.IncrementErrors()
			s.writeJSON(w, http.StatusInternalServerError, VoteResponse{Success: false, Error: "Failed to process vote"})
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			s.Metrics.IncrementErrors()
			s.writeJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), VoteResponse{Success: false, Error: appErr.Message})
			return
		}

		voteResult, ok := result.(*actors.VoteResult)
		if !ok {
			s.writeJSON(w, http.StatusInternalServerError, VoteResponse{Success: false, Error: "Internal server error"})
			return
		}

		s.broadcastSubjects(voteResult.Subjects)

		s.writeJSON(w, http.StatusOK, VoteResponse{
			Success:  true,
			Subjects: voteResult.Subjects,
			User:     voteResult.User,
			Message:  "Vote recorded successfully",
		})
	}
}

// broadcastSubjects pushes the updated tallies to every websocket client.
func (s *Server) broadcastSubjects(subjects []*models.Subject) {
	if s.Hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":     "subjects",
		"subjects": subjects,
	})
	if err != nil {
		s.Logger.Error("failed to encode tally broadcast", "error", err)
		return
	}
	s.Hub.Broadcast <- payload
}
