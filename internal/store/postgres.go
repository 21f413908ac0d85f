// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"kaul/internal/models"
)

// PostgresStore keeps each document as a JSONB row in a documents table,
// addressed by its fixed identifier.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_TYPE is postgres")
	}

	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.initializeTable(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) initializeTable(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

func (p *PostgresStore) readDoc(ctx context.Context, docID string, out any) (bool, error) {
	var data []byte
	err := p.db.GetContext(ctx, &data, `SELECT data FROM documents WHERE id = $1`, docID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read document %s: %w", docID, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode document %s: %w", docID, err)
	}
	return true, nil
}

func (p *PostgresStore) writeDoc(ctx context.Context, docID string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", docID, err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO documents (id, data, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, docID, data)
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", docID, err)
	}
	return nil
}

func (p *PostgresStore) ReadVoting(ctx context.Context) (*models.VotingState, error) {
	var state models.VotingState
	found, err := p.readDoc(ctx, VotingDocID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		seeded := DefaultVotingState()
		if err := p.writeDoc(ctx, VotingDocID, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if state.Users == nil {
		state.Users = make(map[string]*models.UserAccount)
	}
	return &state, nil
}

func (p *PostgresStore) WriteVoting(ctx context.Context, state *models.VotingState) error {
	return p.writeDoc(ctx, VotingDocID, state)
}

func (p *PostgresStore) ReadCounters(ctx context.Context) (*models.CounterState, error) {
	var state models.CounterState
	found, err := p.readDoc(ctx, CountersDocID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		seeded := DefaultCounterState()
		if err := p.writeDoc(ctx, CountersDocID, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if state.Counters == nil {
		state.Counters = make(map[string]int)
	}
	return &state, nil
}

func (p *PostgresStore) WriteCounters(ctx context.Context, state *models.CounterState) error {
	return p.writeDoc(ctx, CountersDocID, state)
}

func (p *PostgresStore) Close(ctx context.Context) error {
	return p.db.Close()
}
