package store

import (
	"time"

	"kaul/internal/models"
)

// DefaultVotingState is the seed supplied when no voting document exists.
// Subjects are fixed at startup and never deleted; user accounts start
// empty and are created lazily by the engine.
func DefaultVotingState() *models.VotingState {
	now := time.Now().UTC()
	newSubject := func(id int, title, emoji string) *models.Subject {
		return &models.Subject{
			ID:           id,
			Title:        title,
			Emoji:        emoji,
			Votes:        models.VoteCounts{},
			VoterHistory: make([]models.VoteRecord, 0),
			LastUpdated:  now,
		}
	}

	return &models.VotingState{
		Subjects: []*models.Subject{
			newSubject(1, "Kubernetes", "🚢"),
			newSubject(2, "AWS Cloud", "☁️"),
			newSubject(3, "Ubuntu Linux", "🐧"),
			newSubject(4, "LangChain", "🔗"),
		},
		Users: make(map[string]*models.UserAccount),
		Profiles: []models.Profile{
			{ID: "user1", Name: "Alice", Avatar: "👩‍💻"},
			{ID: "user2", Name: "Bob", Avatar: "👨‍💻"},
			{ID: "user3", Name: "Charlie", Avatar: "🧑‍💻"},
			{ID: "user4", Name: "Diana", Avatar: "👩‍🔬"},
		},
	}
}

// DefaultCounterState is the seed for the legacy counter document.
func DefaultCounterState() *models.CounterState {
	return &models.CounterState{Counters: make(map[string]int)}
}
