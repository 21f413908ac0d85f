package actors

import (
	"context"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaul/internal/models"
	"kaul/internal/store"
	"kaul/internal/utils"
)

func spawnVoteActor(t *testing.T, st store.Store) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewVoteActor(st, utils.NewMetricsCollector(), testLogger())
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func askVoteActor(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func TestVoteActorSeedsDefaults(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	result := askVoteActor(t, system, pid, &GetVotingStateMsg{})
	state, ok := result.(*models.VotingState)
	require.True(t, ok, "expected *models.VotingState, got %T", result)

	assert.Len(t, state.Subjects, 4)
	assert.Len(t, state.Profiles, 4)
	assert.Empty(t, state.Users)
	assert.Equal(t, "Kubernetes", state.Subjects[0].Title)

	counts := askVoteActor(t, system, pid, &GetCountsMsg{})
	assert.Equal(t, 4, counts)
}

func TestVoteActorRecordVote(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	result := askVoteActor(t, system, pid, &RecordVoteMsg{
		SubjectID: 1,
		VoteType:  models.VoteUp,
		UserID:    "user1",
	})
	voteResult, ok := result.(*VoteResult)
	require.True(t, ok, "expected *VoteResult, got %T", result)

	assert.Equal(t, models.InitialPoints-models.VoteCost, voteResult.User.Points)

	var subject *models.Subject
	for _, s := range voteResult.Subjects {
		if s.ID == 1 {
			subject = s
		}
	}
	require.NotNil(t, subject)
	assert.Equal(t, 1, subject.Votes.Up)
	assert.Equal(t, 0, subject.Votes.Down)
	require.Len(t, subject.VoterHistory, 1)
	assert.Equal(t, "user1", subject.VoterHistory[0].UserID)
	assert.Equal(t, 1, subject.VoterHistory[0].Position)
	assert.Equal(t, models.VoteCost, subject.VoterHistory[0].PointsSpent)

	// The sole voter has no earlier voters to reward.
	assert.Empty(t, voteResult.User.RewardHistory)
}

func TestVoteActorRejectsDuplicateDirection(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	msg := &RecordVoteMsg{SubjectID: 2, VoteType: models.VoteDown, UserID: "user1"}
	askVoteActor(t, system, pid, msg)

	result := askVoteActor(t, system, pid, msg)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", result)
	assert.Equal(t, utils.ErrDuplicateVote, appErr.Code)
	assert.Equal(t, "You have already voted this way on this subject", appErr.Message)

	// The rejected vote must not cost anything or touch the tally.
	state := askVoteActor(t, system, pid, &GetVotingStateMsg{}).(*models.VotingState)
	assert.Equal(t, models.InitialPoints-models.VoteCost, state.Users["user1"].Points)
	assert.Equal(t, 1, state.FindSubject(2).Votes.Down)
}

func TestVoteActorAllowsOppositeDirection(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 3, VoteType: models.VoteUp, UserID: "user1"})
	result := askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 3, VoteType: models.VoteDown, UserID: "user1"})

	voteResult, ok := result.(*VoteResult)
	require.True(t, ok, "expected *VoteResult, got %T", result)
	assert.Equal(t, models.InitialPoints-2*models.VoteCost, voteResult.User.Points)

	subject := voteResult.Subjects[2]
	assert.Equal(t, 1, subject.Votes.Up)
	assert.Equal(t, 1, subject.Votes.Down)
	assert.Len(t, subject.VoterHistory, 2)
}

func TestVoteActorRewardsEarlierVoter(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 1, VoteType: models.VoteUp, UserID: "user1"})
	askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 1, VoteType: models.VoteUp, UserID: "user2"})

	state := askVoteActor(t, system, pid, &GetVotingStateMsg{}).(*models.VotingState)

	// user1 voted first and collects the rank-1 reward from user2's vote.
	user1 := state.Users["user1"]
	require.NotNil(t, user1)
	assert.InDelta(t, models.InitialPoints-models.VoteCost+0.5, user1.Points, 1e-9)
	assert.InDelta(t, 0.5, user1.UpVoteRewards[1], 1e-9)
	require.Len(t, user1.RewardHistory, 1)
	assert.Equal(t, "user2", user1.RewardHistory[0].FromUser)
	assert.Equal(t, 1, user1.RewardHistory[0].Tier)

	// user2 only paid.
	user2 := state.Users["user2"]
	require.NotNil(t, user2)
	assert.Equal(t, models.InitialPoints-models.VoteCost, user2.Points)
	assert.Empty(t, user2.RewardHistory)
}

func TestVoteActorSubjectNotFound(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	result := askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 99, VoteType: models.VoteUp, UserID: "user1"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", result)
	assert.Equal(t, utils.ErrSubjectNotFound, appErr.Code)
	assert.Equal(t, "Subject not found", appErr.Message)

	// No debit on rejection.
	state := askVoteActor(t, system, pid, &GetVotingStateMsg{}).(*models.VotingState)
	assert.Equal(t, models.InitialPoints, state.Users["user1"].Points)
}

func TestVoteActorInsufficientPoints(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewFileStore(dir)
	require.NoError(t, err)

	// Pre-seed a nearly broke account before the actor loads the document.
	state, err := st.ReadVoting(context.Background())
	require.NoError(t, err)
	state.Users["poor"] = &models.UserAccount{Points: 5}
	require.NoError(t, st.WriteVoting(context.Background(), state))

	system, pid := spawnVoteActor(t, st)

	result := askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 1, VoteType: models.VoteUp, UserID: "poor"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", result)
	assert.Equal(t, utils.ErrInsufficientPoints, appErr.Code)
	assert.Equal(t, "Not enough points to vote", appErr.Message)

	loaded := askVoteActor(t, system, pid, &GetVotingStateMsg{}).(*models.VotingState)
	assert.Equal(t, 5.0, loaded.Users["poor"].Points)
	assert.Equal(t, 0, loaded.FindSubject(1).Votes.Up)
}

func TestVoteActorPersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewFileStore(dir)
	require.NoError(t, err)
	system, pid := spawnVoteActor(t, st)

	askVoteActor(t, system, pid, &RecordVoteMsg{SubjectID: 4, VoteType: models.VoteUp, UserID: "user1"})
	system.Root.Stop(pid)

	// A fresh actor on the same directory sees the committed vote.
	st2, err := store.NewFileStore(dir)
	require.NoError(t, err)
	system2, pid2 := spawnVoteActor(t, st2)

	state := askVoteActor(t, system2, pid2, &GetVotingStateMsg{}).(*models.VotingState)
	assert.Equal(t, 1, state.FindSubject(4).Votes.Up)
	assert.Equal(t, models.InitialPoints-models.VoteCost, state.Users["user1"].Points)
}
