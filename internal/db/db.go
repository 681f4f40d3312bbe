package db

import (
	"context"
	"time"
)

// DocumentStore is the vector-capable document database facade.
type DocumentStore interface {
	Pinger
	DocumentWriter
	VectorSearcher
	IndexManager
	DropDatabase(ctx context.Context) error
	Close(ctx context.Context) error
}

// KVBackend is the key-value backend used for the embedding cache and token budget.
type KVBackend interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentWriter inserts documents without stopping at the first failure.
type DocumentWriter interface {
	InsertMany(ctx context.Context, docs []any) (*InsertResult, error)
}

// VectorSearcher runs k-nearest-neighbor queries over a vector index.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) ([]SearchEntry, error)
}

// IndexManager provides vector index lifecycle operations.
type IndexManager interface {
	CreateVectorIndex(ctx context.Context, def *VectorIndexDefinition) error
}

// KVStore provides the key-value operations of the embedding cache and the budget counters.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	CounterStore
}

// CounterStore keeps named integer counters grouped under one expiring key.
type CounterStore interface {
	// AddCounters increments fields of key and sets ttl only if key has no expiry yet.
	AddCounters(ctx context.Context, key string, deltas map[string]int64, ttl time.Duration) error
	// Counters returns every field of key. A missing key yields an empty map.
	Counters(ctx context.Context, key string) (map[string]int64, error)
}
