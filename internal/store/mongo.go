// internal/store/mongo.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kaul/internal/models"
)

// MongoStore keeps each document as a single record in the documents
// collection, addressed by its fixed identifier. The payload is stored as
// canonical JSON so every adapter round-trips the exact same encoding.
type MongoStore struct {
	client    *mongo.Client
	documents *mongo.Collection
}

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URI is required when STORE_TYPE is mongo")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Database("admin").RunCommand(connectCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database("kaul")
	return &MongoStore{
		client:    client,
		documents: db.Collection("documents"),
	}, nil
}

func (m *MongoStore) readDoc(ctx context.Context, docID string, out any) (bool, error) {
	var doc mongoDocument
	err := m.documents.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read document %s: %w", docID, err)
	}
	if err := json.Unmarshal([]byte(doc.Data), out); err != nil {
		return false, fmt.Errorf("failed to decode document %s: %w", docID, err)
	}
	return true, nil
}

func (m *MongoStore) writeDoc(ctx context.Context, docID string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", docID, err)
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": docID}
	update := bson.M{"$set": bson.M{
		"data":      string(data),
		"updatedAt": time.Now().UTC(),
	}}

	if _, err := m.documents.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to write document %s: %w", docID, err)
	}
	return nil
}

func (m *MongoStore) ReadVoting(ctx context.Context) (*models.VotingState, error) {
	var state models.VotingState
	found, err := m.readDoc(ctx, VotingDocID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		seeded := DefaultVotingState()
		if err := m.writeDoc(ctx, VotingDocID, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if state.Users == nil {
		state.Users = make(map[string]*models.UserAccount)
	}
	return &state, nil
}

func (m *MongoStore) WriteVoting(ctx context.Context, state *models.VotingState) error {
	return m.writeDoc(ctx, VotingDocID, state)
}

func (m *MongoStore) ReadCounters(ctx context.Context) (*models.CounterState, error) {
	var state models.CounterState
	found, err := m.readDoc(ctx, CountersDocID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		seeded := DefaultCounterState()
		if err := m.writeDoc(ctx, CountersDocID, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if state.Counters == nil {
		state.Counters = make(map[string]int)
	}
	return &state, nil
}

func (m *MongoStore) WriteCounters(ctx context.Context, state *models.CounterState) error {
	return m.writeDoc(ctx, CountersDocID, state)
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
