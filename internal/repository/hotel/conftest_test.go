package hotel

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/vecagent/internal/db"
	"github.com/kailas-cloud/vecagent/internal/domain/index"
)

// memStore is an in-memory document store that scores vectors like the real one.
// It returns hits in insertion order so callers must do their own ranking.
type memStore struct {
	field      string
	similarity index.Similarity
	docs       [][]byte
	reject     map[int]bool

	insertErr error
	searchErr error
	indexErr  error
	dropErr   error

	lastQuery *db.KNNQuery
	lastIndex *db.VectorIndexDefinition
	dropped   bool
}

func newMemStore(field string, sim index.Similarity) *memStore {
	return &memStore{field: field, similarity: sim, reject: map[int]bool{}}
}

func (m *memStore) InsertMany(_ context.Context, docs []any) (*db.InsertResult, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	res := &db.InsertResult{}
	for i, d := range docs {
		if m.reject[i] {
			res.Failures = append(res.Failures, db.WriteFailure{Index: i, Code: 11000, Message: "duplicate key"})
			continue
		}
		raw, err := bson.Marshal(d)
		if err != nil {
			res.Failures = append(res.Failures, db.WriteFailure{Index: i, Code: 2, Message: err.Error()})
			continue
		}
		m.docs = append(m.docs, raw)
		res.Inserted++
	}
	return res, nil
}

func (m *memStore) SearchKNN(_ context.Context, q *db.KNNQuery) ([]db.SearchEntry, error) {
	m.lastQuery = q
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := make([]db.SearchEntry, 0, len(m.docs))
	for _, raw := range m.docs {
		vec := vectorOf(raw, q.Field)
		out = append(out, db.SearchEntry{Score: score(m.similarity, q.Vector, vec), Document: raw})
	}
	return out, nil
}

func (m *memStore) CreateVectorIndex(_ context.Context, def *db.VectorIndexDefinition) error {
	m.lastIndex = def
	return m.indexErr
}

func (m *memStore) DropDatabase(_ context.Context) error {
	if m.dropErr != nil {
		return m.dropErr
	}
	m.dropped = true
	m.docs = nil
	return nil
}

func vectorOf(raw []byte, field string) []float64 {
	arr, ok := bson.Raw(raw).Lookup(field).ArrayOK()
	if !ok {
		return nil
	}
	vals, err := arr.Values()
	if err != nil {
		return nil
	}
	vec := make([]float64, len(vals))
	for i, v := range vals {
		vec[i] = v.Double()
	}
	return vec
}

func score(sim index.Similarity, q []float32, v []float64) float64 {
	var dot, nq, nv, l2 float64
	for i := range q {
		if i >= len(v) {
			break
		}
		a, b := float64(q[i]), v[i]
		dot += a * b
		nq += a * a
		nv += b * b
		l2 += (a - b) * (a - b)
	}
	switch sim {
	case index.Euclidean:
		return math.Sqrt(l2)
	case index.InnerProduct:
		return dot
	default:
		if nq == 0 || nv == 0 {
			return 0
		}
		return dot / (math.Sqrt(nq) * math.Sqrt(nv))
	}
}
