package store

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"recipe-service/internal/config"
)

const (
	RecipesCollection = "recipes"
	UsersCollection   = "users"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "store").Logger()

// Store owns the MongoDB client. It is created once in main and handed to the
// repositories; Disconnect must be called on shutdown.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and pings it until it answers or the retries run out.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if cfg.OperationTimeout.Duration > 0 {
		opts.SetTimeout(cfg.OperationTimeout.Duration)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "creating mongo client")
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			logger.Info().Msgf("Connected to Mongo! Database name: %q", cfg.Database)
			return &Store{client: client, db: client.Database(cfg.Database)}, nil
		}
		logger.Warn().Err(err).Msgf("Retry %d: failed to reach mongo database %s", i+1, cfg.Database)

		if i == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, errors.Wrap(ctx.Err(), "connecting to mongo")
		case <-time.After(cfg.RetryInterval.Duration):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, errors.Wrapf(err, "failed to connect to mongo database %s after %d attempts", cfg.Database, retries)
}

// New wraps an already connected client.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Disconnect(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "disconnecting from mongo")
	}
	logger.Info().Msg("Disconnected from Mongo")
	return nil
}
