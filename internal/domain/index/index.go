package index

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecagent/internal/domain"
)

// Algorithm is the vector index kind understood by the document store.
type Algorithm string

// Supported index algorithms.
const (
	IVF     Algorithm = "vector-ivf"
	HNSW    Algorithm = "vector-hnsw"
	DiskANN Algorithm = "vector-diskann"
)

// Similarity is the distance metric of a vector index.
type Similarity string

// Supported similarity metrics.
const (
	Cosine       Similarity = "COS"
	Euclidean    Similarity = "L2"
	InnerProduct Similarity = "IP"
)

// ParseAlgorithm accepts both the store kind ("vector-hnsw") and the short name ("hnsw").
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vector-ivf", "ivf":
		return IVF, nil
	case "vector-hnsw", "hnsw":
		return HNSW, nil
	case "vector-diskann", "diskann":
		return DiskANN, nil
	default:
		return "", fmt.Errorf("unsupported vector index algorithm %q: %w", s, domain.ErrInvalidIndexConfig)
	}
}

// ParseSimilarity accepts the store code ("COS") and the long name ("cosine").
func ParseSimilarity(s string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cos", "cosine":
		return Cosine, nil
	case "l2", "euclidean":
		return Euclidean, nil
	case "ip", "inner-product", "inner_product", "dot":
		return InnerProduct, nil
	default:
		return "", fmt.Errorf("unsupported vector similarity %q: %w", s, domain.ErrInvalidIndexConfig)
	}
}

// HigherIsBetter reports whether a larger score means a closer match.
// L2 scores are distances, so smaller is better.
func (s Similarity) HigherIsBetter() bool {
	return s != Euclidean
}

// Config describes a vector index. Only the tuning knobs of the chosen algorithm are used.
type Config struct {
	Name       string
	Field      string
	Algorithm  Algorithm
	Dimensions int
	Similarity Similarity

	NumLists int // IVF

	M              int // HNSW
	EFConstruction int // HNSW

	MaxDegree int // DiskANN
	LBuild    int // DiskANN
}

// Validate checks that the config names a supported algorithm with usable parameters.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("index name is required: %w", domain.ErrInvalidIndexConfig)
	}
	if c.Field == "" {
		return fmt.Errorf("vector field is required: %w", domain.ErrInvalidIndexConfig)
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive, got %d: %w", c.Dimensions, domain.ErrInvalidIndexConfig)
	}
	if _, err := ParseSimilarity(string(c.Similarity)); err != nil {
		return err
	}

	switch c.Algorithm {
	case IVF:
		if c.NumLists <= 0 {
			return fmt.Errorf("ivf num_lists must be positive: %w", domain.ErrInvalidIndexConfig)
		}
	case HNSW:
		if c.M <= 0 || c.EFConstruction <= 0 {
			return fmt.Errorf("hnsw m and ef_construction must be positive: %w", domain.ErrInvalidIndexConfig)
		}
	case DiskANN:
		if c.MaxDegree <= 0 || c.LBuild <= 0 {
			return fmt.Errorf("diskann max_degree and l_build must be positive: %w", domain.ErrInvalidIndexConfig)
		}
	default:
		return fmt.Errorf("unsupported vector index algorithm %q: %w", c.Algorithm, domain.ErrInvalidIndexConfig)
	}
	return nil
}
