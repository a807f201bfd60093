// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	snapqueue "github.com/okian/matchline/internal/adapters/mq/queue"
	workerpool "github.com/okian/matchline/internal/adapters/mq/worker"
	repository "github.com/okian/matchline/internal/adapters/repository"
	"github.com/okian/matchline/internal/domain/model"
	"github.com/okian/matchline/internal/domain/seen"
	"github.com/okian/matchline/internal/domain/subs"
	"github.com/okian/matchline/internal/domain/timeline"
	"github.com/okian/matchline/pkg/logger"
	"github.com/okian/matchline/pkg/metrics"
)

// engineAssembler adapts the pure engine functions to worker.Assembler.
type engineAssembler struct{}

func (engineAssembler) Assemble(_ context.Context, snap model.Snapshot) (repository.Computed, error) {
	if snap.MatchID == "" {
		return repository.Computed{}, errors.New("snapshot without match id")
	}

	entries := timeline.Build(snap)
	home, away := subs.Project(snap.Substitutions, snap.Home, snap.Away)

	return repository.Computed{
		MatchID:    snap.MatchID,
		SnapshotID: snap.SnapshotID,
		BuiltAt:    time.Now(),
		Entries:    entries,
		Home:       home,
		Away:       away,
	}, nil
}

// Service implements the API dependencies for the match timeline system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	recorder   seen.Recorder
	queue      snapqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	seenCacheSize int
	shardCount    int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the snapshot queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSeenCacheSize sets the size of the snapshot dedupe cache.
func WithSeenCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.seenCacheSize = size
		}
	}
}

// WithShardCount sets the number of store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10_000,
		seenCacheSize: 100_000,
		shardCount:    8,
		stopCh:        make(chan struct{}),
		logger:        nil, // replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting timeline service...")

	s.store = repository.NewShardStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.recorder = seen.NewCache(
		seen.WithMaxSize(s.seenCacheSize),
	)
	s.queue = snapqueue.NewInMemoryQueue(
		snapqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, engineAssembler{}, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "timeline service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("seenCacheSize", s.seenCacheSize),
		logger.Int("shardCount", s.shardCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping timeline service...")

	// Close the queue first so workers drain what is left and exit.
	if q, ok := s.queue.(*snapqueue.InMemoryQueue); ok && !q.IsClosed() {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "timeline service stopped")
}

// SeenAndRecord atomically checks if a snapshot id was seen and records
// it if not. Returns true if the snapshot was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.recorder.SeenAndRecord(ctx, id)
}

// Unrecord removes a snapshot id from the seen list, allowing it to be
// retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.recorder.Unrecord(ctx, id)
}

// Size returns the current number of ids in the seen cache.
func (s *Service) Size() int64 {
	if s.recorder == nil {
		return 0
	}
	return s.recorder.Size()
}

// Enqueue submits a snapshot for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, snap model.Snapshot) bool {
	s.logger.Debug(ctx, "received snapshot",
		logger.String("snapshotID", snap.SnapshotID),
		logger.String("matchID", snap.MatchID),
		logger.Int("incidents", len(snap.Incidents)),
		logger.Int("substitutions", len(snap.Substitutions)),
	)

	success := s.queue.Enqueue(ctx, snap)
	if success {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return success
}

// Timeline returns the latest computed timeline for a match.
func (s *Service) Timeline(ctx context.Context, matchID string) (repository.Computed, error) {
	return s.store.Get(ctx, matchID)
}

// Lineups returns the latest projected rosters for a match.
func (s *Service) Lineups(ctx context.Context, matchID string) (repository.Computed, error) {
	return s.store.Get(ctx, matchID)
}

// Matches returns the tracked match ids.
func (s *Service) Matches(ctx context.Context) []string {
	return s.store.Matches(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"seenCacheSize": s.seenCacheSize,
		"shardCount":    s.shardCount,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		matchesTracked := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["matchesTracked"] = matchesTracked
		stats["seenCacheEntries"] = s.recorder.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateMatchesTracked(matchesTracked)
	}

	return stats
}
