package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"query-hub/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	CollectionMyQueries       = "myQueries"
	CollectionBlogPosts       = "blogPosts"
	CollectionRecommendations = "recommendations"
)

// MongoDB wraps the shared client and the service database.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// BuildAtlasURI returns the SRV connection string for an Atlas cluster.
func BuildAtlasURI(user, pass, host string) string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

// Connect opens the client with the stable server API (v1, strict) and pings
// the admin database before returning.
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*MongoDB, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(timeoutCtx, clientOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseConnection, fmt.Errorf("failed to connect to MongoDB: %w", err))
	}

	if err := client.Database("admin").RunCommand(timeoutCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(apperrors.ErrDatabaseConnection, fmt.Errorf("failed to ping MongoDB: %w", err))
	}

	logger.Info("Pinged your deployment. Successfully connected to MongoDB", zap.String("database", dbName))

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
		logger:   logger,
	}, nil
}

// Collection returns a handle on the named collection.
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// Close disconnects from MongoDB
func (m *MongoDB) Close() error {
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	m.logger.Info("Disconnected from MongoDB")
	return nil
}
