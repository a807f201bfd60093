package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/okian/matchline/pkg/metrics"
)

// Sharded, in-memory Store implementation. Matches are spread over
// shards by an FNV-1a hash of the match id so concurrent snapshot
// rebuilds of different matches rarely contend.

const defaultShardCount = 8

// ShardStore implements Store with one RWMutex-guarded map per shard.
type ShardStore struct {
	shards []*shard
}

type shard struct {
	mu      sync.RWMutex
	matches map[string]Computed
}

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore)

// WithShardCount sets the number of shards. Values below one fall back
// to the default.
func WithShardCount(count int) Option {
	return func(s *ShardStore) {
		if count > 0 {
			s.shards = make([]*shard, count)
		}
	}
}

// NewShardStore creates a sharded in-memory timeline store.
func NewShardStore(_ context.Context, opts ...Option) *ShardStore {
	s := &ShardStore{shards: make([]*shard, defaultShardCount)}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{matches: make(map[string]Computed)}
	}
	metrics.UpdateStoreShardCount(len(s.shards))
	return s
}

// Put stores the computed result for its match.
func (s *ShardStore) Put(ctx context.Context, c Computed) error {
	if c.MatchID == "" {
		return ErrEmptyMatchID
	}
	start := time.Now()
	sh := s.shardFor(c.MatchID)

	sh.mu.Lock()
	sh.matches[c.MatchID] = c
	sh.mu.Unlock()

	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateMatchesTracked(s.Count(ctx))
	return nil
}

// Get returns the latest computed result for a match.
func (s *ShardStore) Get(_ context.Context, matchID string) (Computed, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if matchID == "" {
		return Computed{}, ErrEmptyMatchID
	}
	sh := s.shardFor(matchID)

	sh.mu.RLock()
	c, ok := sh.matches[matchID]
	sh.mu.RUnlock()

	if !ok {
		return Computed{}, ErrNotFound
	}
	return c, nil
}

// Count returns the number of matches tracked across all shards.
func (s *ShardStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.matches)
		sh.mu.RUnlock()
	}
	return total
}

// Matches returns all tracked match ids in lexical order.
func (s *ShardStore) Matches(_ context.Context) []string {
	var ids []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id := range sh.matches {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(ids)
	return ids
}

func (s *ShardStore) shardFor(matchID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(matchID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}
