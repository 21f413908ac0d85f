package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kaul/internal/models"
)

// minRewardThreshold stops the payout pass once a rank's reward falls
// below it. Rewards are monotonically non-increasing in rank, so every
// later rank is below the threshold too.
const minRewardThreshold = 0.000001

// tierReward returns the flat payout for a 1-based rank within the
// filtered voter history, plus the tier index the rank falls into.
// Every rank inside a tier receives the same flat amount.
func tierReward(rank int) (float64, int) {
	switch {
	case rank <= 10:
		return 0.5, 1
	case rank <= 100:
		return 0.033, 2
	case rank <= 1000:
		return 0.00167, 3
	case rank <= 10000:
		return 0.000056, 4
	default:
		return 0, 0
	}
}

// distributeRewards pays earlier same-direction voters of the subject,
// excluding the voter who triggered the pass. Rank is the recipient's
// 1-based position within the filtered history, not the stored record
// position: the first same-direction voter other than the current one is
// rank 1 regardless of where they sit in the full history. All mutated
// accounts are flushed in a single write at the end of the pass.
func (a *VoteActor) distributeRewards(subjectID int, voteType models.VoteDirection, currentVoterID string) error {
	subject := a.state.FindSubject(subjectID)
	if subject == nil {
		return fmt.Errorf("subject %d not found during reward distribution", subjectID)
	}

	now := time.Now().UTC()
	rank := 0
	rewarded := 0
	for _, rec := range subject.VoterHistory {
		if rec.VoteType != voteType || rec.UserID == currentVoterID {
			continue
		}
		rank++

		reward, tier := tierReward(rank)
		if reward < minRewardThreshold {
			break
		}

		user := a.state.GetOrCreateUser(rec.UserID)
		user.Points += reward
		user.AddReward(subjectID, voteType, reward)
		user.RewardHistory = append(user.RewardHistory, models.RewardEvent{
			ID:        uuid.New(),
			Timestamp: now,
			SubjectID: subjectID,
			Amount:    reward,
			FromUser:  currentVoterID,
			VoteType:  voteType,
			Position:  rank,
			Tier:      tier,
		})
		rewarded++
	}

	if rewarded == 0 {
		return nil
	}

	a.logger.Debug("distributed rewards",
		"subjectId", subjectID,
		"voteType", voteType,
		"recipients", rewarded)

	return a.store.WriteVoting(context.Background(), a.state)
}
