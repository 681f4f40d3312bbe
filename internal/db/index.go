package db

// VectorIndexDefinition describes a vector index in store terms.
// Kind and Similarity use the store's own vocabulary ("vector-ivf", "COS").
type VectorIndexDefinition struct {
	Name       string
	Field      string
	Kind       string
	Dimensions int
	Similarity string

	NumLists       int
	M              int
	EFConstruction int
	MaxDegree      int
	LBuild         int
}
