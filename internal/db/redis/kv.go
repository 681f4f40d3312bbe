package redis

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vecagent/internal/db"
)

// Get retrieves a cached value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL stores a value that expires after ttl (SET EX).
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// AddCounters runs one HINCRBY per field followed by EXPIRE NX, in a single
// DoMulti round-trip. Fields are sent in sorted order.
func (s *Store) AddCounters(ctx context.Context, key string, deltas map[string]int64, ttl time.Duration) error {
	if len(deltas) == 0 {
		return nil
	}

	fields := slices.Sorted(maps.Keys(deltas))
	cmds := make([]rueidis.Completed, 0, len(fields)+1)
	for _, f := range fields {
		cmds = append(cmds, s.b().Hincrby().Key(key).Field(f).Increment(deltas[f]).Build())
	}
	cmds = append(cmds, s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build())

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			if i == len(fields) {
				return &db.Error{Op: db.OpExpire, Err: fmt.Errorf("key %s: %w", key, err)}
			}
			return &db.Error{Op: db.OpHIncrBy, Err: fmt.Errorf("key %s field %s: %w", key, fields[i], err)}
		}
	}
	return nil
}

// Counters returns every counter stored under key.
func (s *Store) Counters(ctx context.Context, key string) (map[string]int64, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	raw, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}

	out := make(map[string]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &db.Error{Op: db.OpDecode, Err: fmt.Errorf("key %s field %s: %w", key, field, err)}
		}
		out[field] = n
	}
	return out, nil
}
