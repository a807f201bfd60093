// Package worker defines worker contracts for asynchronous timeline
// assembly.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/matchline/internal/adapters/mq/queue"
	"github.com/okian/matchline/internal/adapters/repository"
	"github.com/okian/matchline/pkg/logger"
	"github.com/okian/matchline/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Snapshot abstracts what workers read off the queue.
// Using the queue.Snapshot type for consistency.
type Snapshot = queue.Snapshot

// Assembler turns a raw snapshot into a computed timeline and rosters.
type Assembler interface {
	Assemble(ctx context.Context, s Snapshot) (repository.Computed, error)
}

// Store persists assembled results.
type Store interface {
	Put(ctx context.Context, c repository.Computed) error
}

// Queue defines how workers receive snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Snapshot
}

// Worker processes snapshots and writes computed timelines using the
// provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining snapshots before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing snapshots.
type InMemoryWorker struct {
	queue     Queue
	assembler Assembler
	store     Store
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, assembler Assembler, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		assembler: assembler,
		store:     store,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	snapshots := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case snap, ok := <-snapshots:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processSnapshot(ctx, snap); err != nil {
				w.logger.Error(ctx, "error processing snapshot", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processSnapshot handles a single snapshot.
func (w *InMemoryWorker) processSnapshot(ctx context.Context, snap Snapshot) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	buildStart := time.Now()
	computed, err := w.assembler.Assemble(ctx, snap)
	buildLatency := time.Since(buildStart).Milliseconds()

	metrics.RecordBuildLatency(float64(buildLatency))

	if err != nil {
		metrics.RecordBuildError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "build_error")
		w.logger.Error(ctx, "timeline build failed for snapshot",
			logger.String("snapshotID", snap.SnapshotID),
			logger.String("matchID", snap.MatchID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to build timeline for snapshot %s: %w", snap.SnapshotID, err)
	}

	if err := w.store.Put(ctx, computed); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "store update failed for snapshot",
			logger.String("snapshotID", snap.SnapshotID),
			logger.String("matchID", snap.MatchID),
			logger.Error(err),
		)
		return fmt.Errorf("store update failed: %w", err)
	}

	metrics.RecordTimelineEntries(len(computed.Entries))
	metrics.RecordSnapshotProcessed()

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	assembler Assembler
	store     Store

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, assembler Assembler, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		assembler: assembler,
		store:     store,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			assembler,
			store,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActive(workerCount)

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so no new snapshots arrive.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActive(0)

	return nil
}
