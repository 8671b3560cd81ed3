package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func MongoDBName() string {
	if v := os.Getenv("MONGO_DB"); v != "" {
		return v
	}
	return "trident"
}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	db := MongoClient.Database(MongoDBName())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// utterance_log indexes
	utterances := db.Collection("utterance_log")
	_, err := utterances.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// 1) TTL index: expire at ExpiresAt (must be Date)
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		// 2) Ensure no duplicate utterance per call
		{
			Keys: bson.D{{Key: "call_id", Value: 1}, {Key: "utterance_index", Value: 1}},
			Options: options.Index().
				SetName("uniq_call_utterance").
				SetUnique(true),
		},
		// 3) Query helper
		{
			Keys:    bson.D{{Key: "call_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_call_ts"),
		},
	})
	return err
}
