// internal/store/filestore.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"kaul/internal/models"
)

// FileStore keeps each document as a pretty-printed JSON file under a data
// directory. Writes replace the whole file; there is no locking beyond what
// the owning actor provides.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(docID string) string {
	return filepath.Join(f.dir, docID+".json")
}

func (f *FileStore) readDoc(docID string, out any) (bool, error) {
	data, err := os.ReadFile(f.path(docID))
	if os.IsNotExist(err) {
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

func (f *FileStore) writeDoc(docID string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", docID, err)
	}
	if err := os.WriteFile(f.path(docID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", docID, err)
	}
	return nil
}

// ReadVoting loads the voting document, seeding and persisting the default
// state when the file does not exist yet.
func (f *FileStore) ReadVoting(ctx context.Context) (*models.VotingState, error) {
	var state models.VotingState
	found, err := f.readDoc(VotingDocID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		seeded := DefaultVotingState()
		if err := f.writeDoc(VotingDocID, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if state.Users == nil {
		state.Users = make(map[string]*models.UserAccount)
	}
	return &state, nil
}

func (f *FileStore) WriteVoting(ctx context.Context, state *models.VotingState) error {
	return f.writeDoc(VotingDocID, state)
}

// ReadCounters loads the counter document, seeding when absent.
func (f *FileStore) ReadCounters(ctx context.Context) (*models.CounterState, error) {
	var state models.CounterState
	found, err := f.readDoc(CountersDocID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		seeded := DefaultCounterState()
		if err := f.writeDoc(CountersDocID, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if state.Counters == nil {
		state.Counters = make(map[string]int)
	}
	return &state, nil
}

func (f *FileStore) WriteCounters(ctx context.Context, state *models.CounterState) error {
	return f.writeDoc(CountersDocID, state)
}

func (f *FileStore) Close(ctx context.Context) error {
	return nil
}
