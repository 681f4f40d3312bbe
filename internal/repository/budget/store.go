package budget

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// counterStore is the slice of the KV backend the budget needs.
type counterStore interface {
	AddCounters(ctx context.Context, key string, deltas map[string]int64, ttl time.Duration) error
	Counters(ctx context.Context, key string) (map[string]int64, error)
}

// Store persists the shared token budget as one hash per window with a field
// per agent (embedding, planner, synthesizer). A window key outlives its
// window: daily keys by dailyTTL, monthly keys by monthTTL.
type Store struct {
	store    counterStore
	dailyTTL time.Duration
	monthTTL time.Duration
}

// New creates a budget store. Typical TTLs are 48h daily and 62 days monthly.
func New(s counterStore, dailyTTL, monthTTL time.Duration) *Store {
	return &Store{
		store:    s,
		dailyTTL: dailyTTL,
		monthTTL: monthTTL,
	}
}

// Charge adds tokens consumed by agent to the window at key.
func (s *Store) Charge(ctx context.Context, key, agent string, tokens int64) error {
	if tokens <= 0 {
		return nil
	}
	if err := s.store.AddCounters(ctx, key, map[string]int64{agent: tokens}, s.ttlFor(key)); err != nil {
		return fmt.Errorf("budget charge %s to %s: %w", agent, key, err)
	}
	return nil
}

// Load returns tokens per agent for the window at key. An unknown window is empty.
func (s *Store) Load(ctx context.Context, key string) (map[string]int64, error) {
	byAgent, err := s.store.Counters(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("budget load %s: %w", key, err)
	}
	return byAgent, nil
}

// ttlFor picks the TTL from the window segment of key (…:daily:… or …:monthly:…).
func (s *Store) ttlFor(key string) time.Duration {
	if strings.Contains(key, ":daily:") {
		return s.dailyTTL
	}
	return s.monthTTL
}
