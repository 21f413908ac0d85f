package actors

import (
	"log/slog"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"

	"kaul/internal/models"
	"kaul/internal/store"
	"kaul/internal/utils"
)

// Message types for voting operations
type (
	// RecordVoteMsg casts a vote on a subject on behalf of a user.
	RecordVoteMsg struct {
		SubjectID int
		VoteType  models.VoteDirection
		UserID    string
	}

	// GetVotingStateMsg requests the current subjects, users and profiles.
	GetVotingStateMsg struct{}

	// GetCountsMsg requests the number of subjects, for health reporting.
	GetCountsMsg struct{}
)

// VoteResult is the successful response to a RecordVoteMsg.
type VoteResult struct {
	Subjects []*models.Subject
	User     *models.UserAccount
}

// VoteActor owns the voting document. Every read-modify-write cycle on
// subjects and user accounts goes through its mailbox, which serializes
// access without any locking in the store itself.
type VoteActor struct {
	store   store.Store
	state   *models.VotingState
	metrics *utils.MetricsCollector
	logger  *slog.Logger
}

// NewVoteActor creates a VoteActor backed by the given store.
func NewVoteActor(st store.Store, metrics *utils.MetricsCollector, logger *slog.Logger) actor.Actor {
	return &VoteActor{
		store:   st,
		metrics: metrics,
		logger:  logger,
	}
}

// ensureLoaded reads the voting document on first use. The read seeds
// default data when no document exists yet, so it doubles as the one-time
// store initialization.
func (a *VoteActor) ensureLoaded() *utils.AppError {
	if a.state != nil {
		return nil
	}
	state, err := a.store.ReadVoting(stdctx.Background())
	if err != nil {
		a.logger.Error("failed to load voting document", "error", err)
		return utils.NewStoreError("Failed to load voting data", err)
	}
	a.state = state
	return nil
}

func (a *VoteActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		if err := a.ensureLoaded(); err == nil {
			a.logger.Info("vote actor started",
				"subjects", len(a.state.Subjects),
				"users", len(a.state.Users))
		}

	case *actor.Stopping:
		a.logger.Info("vote actor stopping")

	case *RecordVoteMsg:
		a.handleRecordVote(context, msg)

	case *GetVotingStateMsg:
		if appErr := a.ensureLoaded(); appErr != nil {
			context.Respond(appErr)
			return
		}
		context.Respond(a.state)

	case *GetCountsMsg:
		if appErr := a.ensureLoaded(); appErr != nil {
			context.Respond(appErr)
			return
		}
		context.Respond(len(a.state.Subjects))

	default:
		a.logger.Debug("vote actor: unknown message", "type", msg)
	}
}

func (a *VoteActor) handleRecordVote(context actor.Context, msg *RecordVoteMsg) {
	startTime := time.Now()

	if appErr := a.ensureLoaded(); appErr != nil {
		context.Respond(appErr)
		return
	}

	// Balance check happens before any mutation; a rejected vote must not
	// cost the voter anything.
	user := a.state.GetOrCreateUser(msg.UserID)
	if user.Points < models.VoteCost {
		context.Respond(utils.NewInsufficientPointsError())
		return
	}

	subject := a.state.FindSubject(msg.SubjectID)
	if subject == nil {
		context.Respond(utils.NewSubjectNotFoundError())
		return
	}

	if subject.HasVote(msg.UserID, msg.VoteType) {
		context.Respond(utils.NewDuplicateVoteError())
		return
	}

	now := time.Now().UTC()
	user.Points -= models.VoteCost

	if msg.VoteType == models.VoteUp {
		subject.Votes.Up++
	} else {
		subject.Votes.Down++
	}
	subject.VoterHistory = append(subject.VoterHistory, models.VoteRecord{
		UserID:      msg.UserID,
		Timestamp:   now,
		PointsSpent: models.VoteCost,
		VoteType:    msg.VoteType,
		Position:    len(subject.VoterHistory) + 1,
	})
	subject.LastUpdated = now

	if err := a.store.WriteVoting(stdctx.Background(), a.state); err != nil {
		a.logger.Error("failed to persist vote", "subjectId", msg.SubjectID, "error", err)
		context.Respond(utils.NewStoreError("Failed to save vote", err))
		return
	}

	// Reward distribution is best-effort: a failure here never unwinds the
	// vote or tally that was just committed.
	if err := a.distributeRewards(msg.SubjectID, msg.VoteType, msg.UserID); err != nil {
		a.logger.Error("reward distribution failed",
			"subjectId", msg.SubjectID,
			"voteType", msg.VoteType,
			"voter", msg.UserID,
			"error", err)
	}

	a.logger.Info("vote recorded",
		"subjectId", msg.SubjectID,
		"voteType", msg.VoteType,
		"userId", msg.UserID,
		"position", len(subject.VoterHistory))

	a.metrics.AddOperationLatency("record_vote", time.Since(startTime))
	context.Respond(&VoteResult{
		Subjects: a.state.Subjects,
		User:     user,
	})
}
