package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/nnode/seeder/internal/logging"
	"github.com/nnode/seeder/internal/models"
)

// ErrNotConnected is returned by InsertBatch before a successful Connect
var ErrNotConnected = errors.New("document store is not connected")

const defaultConnectTimeout = 10 * time.Second

// MongoConfig configures a MongoStore
type MongoConfig struct {
	URI            string
	AppName        string
	ConnectTimeout time.Duration
}

// MongoStore implements DocumentStore on a single MongoDB client
type MongoStore struct {
	config MongoConfig
	logger logging.Logger

	mu     sync.Mutex
	client *mongo.Client
	// connected is set only once a ping has succeeded on client
	connected bool
}

var _ DocumentStore = (*MongoStore)(nil)

// NewMongoStore creates an unconnected store; call Connect before InsertBatch
func NewMongoStore(config MongoConfig, logger logging.Logger) *MongoStore {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = defaultConnectTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MongoStore{
		config: config,
		logger: logger.Named("mongo"),
	}
}

// Connect creates the client and pings the primary. The driver dials lazily,
// so the ping is what surfaces unreachable hosts and rejected credentials.
// The client is retained even when the ping fails so Disconnect can release it.
func (s *MongoStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ConnectTimeout)
	defer cancel()

	// A client left by an earlier failed ping is pinged again rather than trusted.
	client := s.client
	if client == nil {
		opts := options.Client().ApplyURI(s.config.URI)
		if s.config.AppName != "" {
			opts.SetAppName(s.config.AppName)
		}

		var err error
		client, err = mongo.Connect(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to create mongo client: %w", err)
		}
		s.client = client
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	s.connected = true

	s.logger.Debug(ctx, "Mongo client connected",
		zap.String("uri", RedactURI(s.config.URI)))
	return nil
}

// InsertBatch inserts all records with one InsertMany call
func (s *MongoStore) InsertBatch(ctx context.Context, database, collection string, records []models.Record) (*models.InsertAck, error) {
	s.mu.Lock()
	client, connected := s.client, s.connected
	s.mu.Unlock()

	if !connected {
		return nil, ErrNotConnected
	}

	coll := client.Database(database).Collection(collection)
	result, err := coll.InsertMany(ctx, models.Documents(records))
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s.%s: %w", database, collection, err)
	}

	ack := &models.InsertAck{
		InsertedCount: len(result.InsertedIDs),
		InsertedIDs:   make([]string, 0, len(result.InsertedIDs)),
	}
	for _, id := range result.InsertedIDs {
		ack.InsertedIDs = append(ack.InsertedIDs, formatID(id))
	}

	return ack, nil
}

// Disconnect closes the client if one exists
func (s *MongoStore) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.connected = false
	s.mu.Unlock()

	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo client: %w", err)
	}

	s.logger.Debug(ctx, "Mongo client disconnected")
	return nil
}

func formatID(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
