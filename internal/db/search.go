package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	Field  string
	Vector []float32
	K      int
}

// SearchEntry is a single document hit. Document holds the raw stored document
// so callers decode it into their own shape.
type SearchEntry struct {
	Score    float64
	Document []byte
}

// InsertResult reports the outcome of an unordered bulk insert.
type InsertResult struct {
	Inserted int
	Failures []WriteFailure
}

// WriteFailure is a single rejected document. Index refers to the input slice.
type WriteFailure struct {
	Index   int
	Code    int
	Message string
}
