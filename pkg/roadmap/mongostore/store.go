// Package mongostore loads stored roadmaps from MongoDB.
//
// Roadmap documents mirror [roadmap.Roadmap]: a numeric "id", the owner's
// "user_id", timestamps, and the content tree under "content". The store is
// read-only; roadmaps are written by the roadmap generator service.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mmerrors "github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// Defaults for Config fields left empty.
const (
	DefaultDatabase   = "yolcu"
	DefaultCollection = "roadmaps"
	DefaultTimeout    = 5 * time.Second
)

// Config configures the MongoDB connection.
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // per-lookup timeout
}

func (c *Config) setDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// finder is the subset of *mongo.Collection the store uses.
type finder interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// Store is a [roadmap.Source] backed by a MongoDB collection.
type Store struct {
	client  *mongo.Client
	coll    finder
	timeout time.Duration
	backoff time.Duration // first wait between lookup attempts
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, mmerrors.New(mmerrors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	cfg.setDefaults()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeNetwork, err, "connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, mmerrors.Wrap(mmerrors.ErrCodeNetwork, err, "ping mongo")
	}

	return &Store{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
		backoff: DefaultBackoff,
	}, nil
}

// Roadmap loads the roadmap with the given id. Network failures are retried
// with backoff; a missing document is reported as ROADMAP_NOT_FOUND.
func (s *Store) Roadmap(ctx context.Context, id int64) (*roadmap.Roadmap, error) {
	var r roadmap.Roadmap
	err := withRetry(ctx, s.backoff, func() error {
		lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.coll.FindOne(lookupCtx, bson.M{"id": id}).Decode(&r)
	})

	switch {
	case err == nil:
		return &r, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, mmerrors.New(mmerrors.ErrCodeRoadmapNotFound, "roadmap %d not found", id)
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return nil, mmerrors.Wrap(mmerrors.ErrCodeTimeout, err, "load roadmap %d", id)
	case mongo.IsNetworkError(err):
		return nil, mmerrors.Wrap(mmerrors.ErrCodeNetwork, err, "load roadmap %d", id)
	default:
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "load roadmap %d", id)
	}
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ roadmap.Source = (*Store)(nil)
