package domain

// KeyPrefix namespaces every key written to the cache store.
const KeyPrefix = "vecagent:"

// Neighbor count bounds accepted by the search tool.
const (
	MinNearestNeighbors     = 1
	MaxNearestNeighbors     = 20
	DefaultNearestNeighbors = 5
)

// DefaultVectorField is the document field holding the embedding.
const DefaultVectorField = "DescriptionVector"

// DefaultDimensions matches text-embedding-ada-002 and text-embedding-3-small.
const DefaultDimensions = 1536
