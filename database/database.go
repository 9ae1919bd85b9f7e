// database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AnuragSingh014/castle-backend/config"
)

var Client *mongo.Client

func Connect() error {
	mongoURI := config.MongoURI
	if mongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}

	clientOptions := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(20 * time.Second).
		SetServerSelectionTimeout(15 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetMaxPoolSize(50)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	// Verify actual connection with ping
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()

	if err = Client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = Client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	return nil
}

// DB returns the configured application database.
func DB() *mongo.Database {
	return Client.Database(config.MongoDB)
}

// EnsureIndexes creates the unique and lookup indexes the application relies on.
// The unique userId/investorId keys enforce the one-record-per-owner invariant
// at the store level.
func EnsureIndexes(ctx context.Context) error {
	db := DB()

	indexes := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{"users", []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{"admins", []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{"investors", []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{"dashboards", []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "lastUpdated", Value: -1}}},
		}},
		{"investor_dashboards", []mongo.IndexModel{
			{Keys: bson.D{{Key: "investorId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "lastUpdated", Value: -1}}},
		}},
		{"published_companies", []mongo.IndexModel{
			{Keys: bson.D{{Key: "originalUserId", Value: 1}}},
			{Keys: bson.D{{Key: "companyInfo.companyName", Value: 1}}},
			{Keys: bson.D{{Key: "companyInfo.industry", Value: 1}}},
			{Keys: bson.D{{Key: "publishedAt", Value: -1}}},
		}},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", idx.collection, err)
		}
	}
	return nil
}

func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Warnf("MongoDB disconnect warning: %v", err)
	}
}
