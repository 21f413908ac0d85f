// internal/store/store.go
package store

import (
	"context"
	"fmt"

	"kaul/internal/config"
	"kaul/internal/models"
)

// Fixed document identifiers. Each adapter addresses exactly these two
// documents; there is no per-entity access.
const (
	VotingDocID   = "voting"
	CountersDocID = "counters"
)

// Store is the persistence collaborator: whole-document read and write.
// Read loads the current state (seeding defaults when the document does
// not exist yet); Write flushes the in-memory state, last-write-wins.
type Store interface {
	ReadVoting(ctx context.Context) (*models.VotingState, error)
	WriteVoting(ctx context.Context, state *models.VotingState) error

	ReadCounters(ctx context.Context) (*models.CounterState, error)
	WriteCounters(ctx context.Context, state *models.CounterState) error

	Close(ctx context.Context) error
}

// New constructs the adapter selected by the configuration.
func New(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "file", "":
		return NewFileStore(cfg.DataDir)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI)
	case "postgres":
		return NewPostgresStore(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported store type %q", cfg.Type)
	}
}
