package result

import "github.com/kailas-cloud/vecagent/internal/domain/hotel"

// Result is a single vector search hit: the stored hotel and its similarity score.
type Result struct {
	hotel hotel.Hotel
	score float64
}

// New creates a search result.
func New(h hotel.Hotel, score float64) Result {
	return Result{hotel: h, score: score}
}

// Hotel returns the matched record.
func (r *Result) Hotel() hotel.Hotel { return r.hotel }

// ID returns the record identifier.
func (r *Result) ID() string { return r.hotel.ID }

// Name returns the record display name.
func (r *Result) Name() string { return r.hotel.Name }

// Score returns the raw similarity score reported by the store.
func (r *Result) Score() float64 { return r.score }
