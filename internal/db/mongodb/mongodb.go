package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/vinhhn3/docker-demo/internal/models"
)

// MongoDB implements the NoSQLDatabase interface for MongoDB
type MongoDB struct {
	mu     sync.RWMutex
	client *mongo.Client
	config *models.Config
}

// New creates a new MongoDB database instance
func New(config *models.Config) (*MongoDB, error) {
	if config == nil || config.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB.
// The driver dials lazily, so the ping is what surfaces an unreachable server.
// No deadline is added beyond the one carried by ctx and the driver's
// own server selection timeout.
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)
	if appName, ok := m.config.Options["app_name"]; ok && appName != "" {
		clientOptions.SetAppName(appName)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.mu.Lock()
	m.client = client
	m.mu.Unlock()

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client != nil {
		return client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("not connected to database")
	}
	return client.Ping(ctx, nil)
}

// DatabaseNameFromURI returns the database named in the URI path ("mydb" in
// mongodb://localhost:27017/mydb). A URI without a path yields "".
func DatabaseNameFromURI(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB uri: %w", err)
	}
	return cs.Database, nil
}

// RedactURI hides the password in a connection string so it can be logged
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mongodb://[unparseable]"
	}
	return u.Redacted()
}
