package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/besuhoff/dungeon-maze-go/internal/logger"
)

var Client *mongo.Client
var Database *mongo.Database

// Connect establishes a connection to MongoDB
func Connect(mongoURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	Database = client.Database("dungeon_maze")

	logger.Log.Info("Connected to MongoDB successfully")

	if err := createIndexes(ctx); err != nil {
		logger.Log.WithError(err).Warn("Failed to create indexes")
	}

	return nil
}

// Enabled reports whether a database connection was made.
func Enabled() bool {
	return Database != nil
}

func createIndexes(ctx context.Context) error {
	_, err := Database.Collection(runsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "level", Value: 1}, {Key: "ticks", Value: 1}}, // fastest runs per level
		},
		{
			Keys: bson.D{{Key: "level", Value: 1}, {Key: "created_at", Value: -1}}, // latest recording
		},
	})
	return err
}

// Disconnect closes the MongoDB connection
func Disconnect() error {
	if Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return Client.Disconnect(ctx)
	}
	return nil
}
