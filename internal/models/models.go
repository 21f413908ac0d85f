package models

import (
	"time"

	"github.com/google/uuid"
)

// Point economy constants.
const (
	// InitialPoints is the balance of a lazily created account.
	InitialPoints = 100.0
	// VoteCost is debited from the voter before a vote is recorded.
	VoteCost = 10.0
)

// VoteCounts holds the running up/down tally of a subject.
type VoteCounts struct {
	Up   int `json:"up" bson:"up"`
	Down int `json:"down" bson:"down"`
}

// VoteRecord is an immutable log entry of one cast vote. Position is the
// 1-based index among the subject's records at insertion time.
type VoteRecord struct {
	UserID      string        `json:"userId" bson:"userId"`
	Timestamp   time.Time     `json:"timestamp" bson:"timestamp"`
	PointsSpent float64       `json:"pointsSpent" bson:"pointsSpent"`
	VoteType    VoteDirection `json:"voteType" bson:"voteType"`
	Position    int           `json:"position" bson:"position"`
}

// Subject is a votable topic with an up/down tally and an append-only
// voter history in chronological order.
type Subject struct {
	ID           int          `json:"id" bson:"id"`
	Title        string       `json:"title" bson:"title"`
	Emoji        string       `json:"emoji" bson:"emoji"`
	Votes        VoteCounts   `json:"votes" bson:"votes"`
	VoterHistory []VoteRecord `json:"voterHistory" bson:"voterHistory"`
	LastUpdated  time.Time    `json:"lastUpdated" bson:"lastUpdated"`
}

// HasVote reports whether userID already has a record of the given
// direction on this subject. The check is scoped to (userId, voteType):
// opposite-direction votes by the same user are allowed.
func (s *Subject) HasVote(userID string, voteType VoteDirection) bool {
	for _, rec := range s.VoterHistory {
		if rec.UserID == userID && rec.VoteType == voteType {
			return true
		}
	}
	return false
}

// RewardEvent is an informational, append-only ledger entry for one payout.
// Position is the recipient's 1-based rank within the filtered
// (same-direction, excluding the triggering voter) history.
type RewardEvent struct {
	ID        uuid.UUID     `json:"id" bson:"id"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	SubjectID int           `json:"subjectId" bson:"subjectId"`
	Amount    float64       `json:"amount" bson:"amount"`
	FromUser  string        `json:"fromUser" bson:"fromUser"`
	VoteType  VoteDirection `json:"voteType" bson:"voteType"`
	Position  int           `json:"position" bson:"position"`
	Tier      int           `json:"tier" bson:"tier"`
}

// UserAccount tracks a voter's point balance and accumulated rewards.
// Accounts are created lazily on first vote or first reward and never deleted.
type UserAccount struct {
	Points          float64         `json:"points" bson:"points"`
	UpVoteRewards   map[int]float64 `json:"upVoteRewards" bson:"upVoteRewards"`
	DownVoteRewards map[int]float64 `json:"downVoteRewards" bson:"downVoteRewards"`
	RewardHistory   []RewardEvent   `json:"rewardHistory" bson:"rewardHistory"`
}

// NewUserAccount creates an account with the initial point balance.
func NewUserAccount() *UserAccount {
	return &UserAccount{
		Points:          InitialPoints,
		UpVoteRewards:   make(map[int]float64),
		DownVoteRewards: make(map[int]float64),
		RewardHistory:   make([]RewardEvent, 0),
	}
}

// AddReward accumulates a payout into the per-subject reward map for the
// given direction, initializing the map when the account was decoded from
// a document without one.
func (u *UserAccount) AddReward(subjectID int, voteType VoteDirection, amount float64) {
	if voteType == VoteUp {
		if u.UpVoteRewards == nil {
			u.UpVoteRewards = make(map[int]float64)
		}
		u.UpVoteRewards[subjectID] += amount
		return
	}
	if u.DownVoteRewards == nil {
		u.DownVoteRewards = make(map[int]float64)
	}
	u.DownVoteRewards[subjectID] += amount
}

// Profile is static display data for a demo user.
type Profile struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar" bson:"avatar"`
}

// VotingState is the whole voting document: subjects, user accounts and
// display profiles. It is read and written as a unit.
type VotingState struct {
	Subjects []*Subject              `json:"subjects" bson:"subjects"`
	Users    map[string]*UserAccount `json:"users" bson:"users"`
	Profiles []Profile               `json:"profiles" bson:"profiles"`
}

// FindSubject returns the subject with the given id, or nil.
func (v *VotingState) FindSubject(id int) *Subject {
	for _, s := range v.Subjects {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// GetOrCreateUser returns the account for userID, creating it lazily.
func (v *VotingState) GetOrCreateUser(userID string) *UserAccount {
	if v.Users == nil {
		v.Users = make(map[string]*UserAccount)
	}
	user, ok := v.Users[userID]
	if !ok {
		user = NewUserAccount()
		v.Users[userID] = user
	}
	return user
}

// CounterState is the legacy counter document: counter id to count.
type CounterState struct {
	Counters map[string]int `json:"counters" bson:"counters"`
}
