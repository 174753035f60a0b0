// Package leadshistory stores the activity trail of every lead in MongoDB.
package leadshistory

import (
	"context"
	"crm/source/database"
	"crm/source/schemas"
	"crm/source/utils"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const MAX_ENTRIES = 200

type Store interface {
	// Record is best effort: failures are logged, never returned.
	Record(ctx context.Context, entry schemas.LeadHistory)
	FindByLead(ctx context.Context, leadID int64) ([]schemas.LeadHistory, error)
}

type mongoStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewStore(client *mongo.Client, env string) Store {
	collection := client.Database(database.GetDB(env)).Collection(database.COLLECTION_LEADS_HISTORY)
	return &mongoStore{collection: collection, now: time.Now}
}

func (s *mongoStore) Record(ctx context.Context, entry schemas.LeadHistory) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), database.MONGO_TIMEOUT)
	defer cancel()

	entry.ID = bson.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		utils.Log.Warn("failed to record lead history",
			zap.Int64("lead_id", entry.LeadID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func (s *mongoStore) FindByLead(ctx context.Context, leadID int64) ([]schemas.LeadHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, database.MONGO_TIMEOUT)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(MAX_ENTRIES)

	cursor, err := s.collection.Find(ctx, bson.D{{Key: "lead_id", Value: leadID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query lead history: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []schemas.LeadHistory{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode lead history: %w", err)
	}
	return entries, nil
}
