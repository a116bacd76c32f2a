package database

import (
	"context"
	"fmt"

	"catalogdemo/config"
	"catalogdemo/logger"
	"catalogdemo/models"
	"catalogdemo/odm"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var Client *mongo.Client
var DB *mongo.Database

var Products *odm.Collection[models.Product]

// ConnectMongo opens the client handle described by s and checks the server
// answers. There is no retry: an unreachable server is returned as an error.
func ConnectMongo(ctx context.Context, s *config.Settings) (*mongo.Client, error) {
	if s.MongoDBDSN == "" {
		return nil, fmt.Errorf("database connection string is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.MongoDBConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(s.MongoDBDSN).
		SetConnectTimeout(s.MongoDBConnectTimeout).
		SetServerSelectionTimeout(s.MongoDBConnectTimeout).
		SetMonitor(CommandMetrics().Monitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	Client = client
	DB = client.Database(s.MongoDBDBName)

	logger.Get().WithField("database", s.MongoDBDBName).Info("Connected to MongoDB")
	return client, nil
}

// InitCollections registers the document models with the database selected
// by ConnectMongo and binds the package collection handles.
func InitCollections(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	return BindCollections(ctx, DB)
}

// BindCollections registers the document models with db.
func BindCollections(ctx context.Context, db *mongo.Database) error {
	if err := odm.Init(ctx, db, models.Product{}); err != nil {
		return err
	}

	products, err := odm.CollectionOf[models.Product]()
	if err != nil {
		return err
	}
	Products = products
	return nil
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	if err := Client.Disconnect(ctx); err != nil {
		logger.Get().WithError(err).Error("Failed to disconnect MongoDB client")
		return err
	}
	logger.Get().Info("Disconnected from MongoDB")
	Client, DB = nil, nil
	return nil
}
