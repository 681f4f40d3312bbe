package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/vecagent/internal/db"
)

// Compile-time check: Store implements db.DocumentStore.
var _ db.DocumentStore = (*Store)(nil)

// Config holds connection parameters for an Azure DocumentDB (MongoDB-compatible) cluster.
type Config struct {
	ConnectionString       string
	ClusterName            string
	Passwordless           bool
	Database               string
	Collection             string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	MaxPoolSize            uint64
	Credential             azcore.TokenCredential // required for passwordless
}

// Store implements db.DocumentStore over one pooled client.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

// Connect opens the client and verifies the connection with a ping.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	s := &Store{client: client}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	s.db = client.Database(cfg.Database)
	s.coll = s.db.Collection(cfg.Collection)
	return s, nil
}

func clientOptions(cfg Config) (*options.ClientOptions, error) {
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("database and collection are required: %w", db.ErrInvalidConfig)
	}

	var opts *options.ClientOptions
	if cfg.Passwordless || (cfg.ConnectionString == "" && cfg.ClusterName != "") {
		if cfg.ClusterName == "" {
			return nil, fmt.Errorf("cluster name is required for passwordless auth: %w", db.ErrInvalidConfig)
		}
		if cfg.Credential == nil {
			return nil, fmt.Errorf("azure credential is required for passwordless auth: %w", db.ErrInvalidConfig)
		}
		opts = options.Client().
			ApplyURI(clusterURI(cfg.ClusterName)).
			SetRetryWrites(true).
			SetAuth(oidcCredential(cfg.Credential))
	} else {
		if cfg.ConnectionString == "" {
			return nil, fmt.Errorf("connection string is required: %w", db.ErrInvalidConfig)
		}
		opts = options.Client().ApplyURI(cfg.ConnectionString)
	}

	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	return opts, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the pooled client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// InsertMany writes docs unordered so one rejected document does not stop the rest.
// Per-document failures are reported in the result, not as an error.
func (s *Store) InsertMany(ctx context.Context, docs []any) (*db.InsertResult, error) {
	if len(docs) == 0 {
		return &db.InsertResult{}, nil
	}
	res, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return insertResult(len(docs), res, err)
}

func insertResult(n int, res *mongo.InsertManyResult, err error) (*db.InsertResult, error) {
	if err == nil {
		inserted := n
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return &db.InsertResult{Inserted: inserted}, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || len(bwe.WriteErrors) == 0 {
		return nil, &db.Error{Op: db.OpInsertMany, Err: err}
	}

	out := &db.InsertResult{
		Inserted: n - len(bwe.WriteErrors),
		Failures: make([]db.WriteFailure, 0, len(bwe.WriteErrors)),
	}
	for _, we := range bwe.WriteErrors {
		out.Failures = append(out.Failures, db.WriteFailure{
			Index:   we.Index,
			Code:    we.Code,
			Message: we.Message,
		})
	}
	return out, nil
}

// SearchKNN runs a cosmosSearch aggregation and returns hits in store order.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) ([]db.SearchEntry, error) {
	cursor, err := s.coll.Aggregate(ctx, knnPipeline(q))
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	defer func() { _ = cursor.Close(context.WithoutCancel(ctx)) }()

	entries := make([]db.SearchEntry, 0, q.K)
	for cursor.Next(ctx) {
		var hit struct {
			Score    float64  `bson:"score"`
			Document bson.Raw `bson:"document"`
		}
		if err := cursor.Decode(&hit); err != nil {
			return nil, &db.Error{Op: db.OpDecode, Err: err}
		}
		entries = append(entries, db.SearchEntry{Score: hit.Score, Document: hit.Document})
	}
	if err := cursor.Err(); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return entries, nil
}

// CreateVectorIndex issues createIndexes with cosmosSearch options.
// A conflicting index under the same name maps to db.ErrIndexExists.
func (s *Store) CreateVectorIndex(ctx context.Context, def *db.VectorIndexDefinition) error {
	cmd, err := vectorIndexCommand(s.coll.Name(), def)
	if err != nil {
		return err
	}
	if err := s.db.RunCommand(ctx, cmd).Err(); err != nil {
		if isIndexConflict(err) {
			return &db.Error{Op: db.OpCreateIndexes, Err: fmt.Errorf("%s: %w", def.Name, db.ErrIndexExists)}
		}
		return &db.Error{Op: db.OpCreateIndexes, Err: err}
	}
	return nil
}

// DropDatabase irreversibly removes the configured database.
func (s *Store) DropDatabase(ctx context.Context) error {
	if err := s.db.Drop(ctx); err != nil {
		return &db.Error{Op: db.OpDropDatabase, Err: err}
	}
	return nil
}

// IndexOptionsConflict and IndexKeySpecsConflict.
var indexConflictCodes = map[int32]bool{85: true, 86: true}

func isIndexConflict(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return indexConflictCodes[ce.Code]
	}
	return false
}
