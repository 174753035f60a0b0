package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	MONGO_TIMEOUT            = 20 * time.Second
	COLLECTION_LEADS_HISTORY = "leads_history"
)

// GetDB maps the running environment to its MongoDB database.
func GetDB(env string) string {
	switch env {
	case "production":
		return "production"
	case "homolog":
		return "homolog"
	default:
		return "development"
	}
}

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("[MongoDB] cannot connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("[MongoDB] ping failed: %w", err)
	}

	return client, nil
}
