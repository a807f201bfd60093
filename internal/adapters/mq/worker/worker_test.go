package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/matchline/internal/adapters/mq/worker"
	repository "github.com/okian/matchline/internal/adapters/repository"
	model "github.com/okian/matchline/internal/domain/model"
	timeline "github.com/okian/matchline/internal/domain/timeline"
	"github.com/okian/matchline/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// Mock implementations for testing.
type mockQueue struct {
	snapshots chan worker.Snapshot
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		snapshots: make(chan worker.Snapshot, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Snapshot {
	return mq.snapshots
}

func (mq *mockQueue) Close() error {
	close(mq.snapshots)
	return nil
}

func (mq *mockQueue) add(s worker.Snapshot) {
	mq.snapshots <- s
}

type mockAssembler struct {
	errors map[string]error
	mu     sync.RWMutex
}

func newMockAssembler() *mockAssembler {
	return &mockAssembler{errors: make(map[string]error)}
}

func (ma *mockAssembler) Assemble(ctx context.Context, s worker.Snapshot) (repository.Computed, error) {
	ma.mu.RLock()
	defer ma.mu.RUnlock()

	if err, exists := ma.errors[s.MatchID]; exists {
		return repository.Computed{}, err
	}
	return repository.Computed{
		MatchID:    s.MatchID,
		SnapshotID: s.SnapshotID,
		BuiltAt:    time.Now(),
		Entries:    []timeline.Entry{},
	}, nil
}

func (ma *mockAssembler) setError(matchID string, err error) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.errors[matchID] = err
}

type mockStore struct {
	computed map[string]repository.Computed
	err      error
	mu       sync.RWMutex
}

func newMockStore() *mockStore {
	return &mockStore{computed: make(map[string]repository.Computed)}
}

func (ms *mockStore) Put(ctx context.Context, c repository.Computed) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.computed[c.MatchID] = c
	return nil
}

func (ms *mockStore) get(matchID string) (repository.Computed, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	c, ok := ms.computed[matchID]
	return c, ok
}

func (ms *mockStore) count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.computed)
}

func snapshotFor(matchID string) worker.Snapshot {
	return model.Snapshot{
		SnapshotID: matchID + "-snap",
		MatchID:    matchID,
		Status:     model.StatusFinished,
	}
}

func waitFor(condition func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

func TestWorkerProcessesSnapshot(t *testing.T) {
	convey.Convey("Given a worker with a queued snapshot", t, func() {
		mq := newMockQueue()
		assembler := newMockAssembler()
		store := newMockStore()
		w := worker.NewInMemoryWorker(mq, assembler, store, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a snapshot is dequeued", func() {
			mq.add(snapshotFor("match-1"))

			convey.Convey("Then the assembled result is stored", func() {
				ok := waitFor(func() bool {
					_, found := store.get("match-1")
					return found
				}, time.Second)
				convey.So(ok, convey.ShouldBeTrue)

				c, _ := store.get("match-1")
				convey.So(c.SnapshotID, convey.ShouldEqual, "match-1-snap")
			})
		})
	})
}

func TestWorkerAssembleError(t *testing.T) {
	convey.Convey("Given a worker whose assembler fails for a match", t, func() {
		mq := newMockQueue()
		assembler := newMockAssembler()
		assembler.setError("bad-match", errors.New("assembly failed"))
		store := newMockStore()
		w := worker.NewInMemoryWorker(mq, assembler, store)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When the failing and a healthy snapshot are queued", func() {
			mq.add(snapshotFor("bad-match"))
			mq.add(snapshotFor("good-match"))

			convey.Convey("Then only the healthy one reaches the store", func() {
				ok := waitFor(func() bool {
					_, found := store.get("good-match")
					return found
				}, time.Second)
				convey.So(ok, convey.ShouldBeTrue)

				_, found := store.get("bad-match")
				convey.So(found, convey.ShouldBeFalse)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		mq := newMockQueue()
		w := worker.NewInMemoryWorker(mq, newMockAssembler(), newMockStore())

		ctx := context.Background()
		go w.Run(ctx)

		convey.Convey("When shutdown is requested", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it stops without error", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestPoolProcessesSnapshots(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		mq := newMockQueue()
		store := newMockStore()
		pool := worker.NewPool(4, mq, newMockAssembler(), store)

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When several snapshots are queued", func() {
			for _, id := range []string{"m1", "m2", "m3"} {
				mq.add(snapshotFor(id))
			}

			convey.Convey("Then all of them are assembled and stored", func() {
				ok := waitFor(func() bool { return store.count() == 3 }, time.Second)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})
}

func TestPoolShutdownClosesQueue(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		mq := newMockQueue()
		pool := worker.NewPool(2, mq, newMockAssembler(), newMockStore())

		ctx := context.Background()
		pool.Start(ctx)

		convey.Convey("When the pool is shut down", func() {
			err := pool.Shutdown(ctx)

			convey.Convey("Then it completes without error", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestPoolDefaultWorkerCount(t *testing.T) {
	convey.Convey("Given a pool created with a non-positive worker count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), newMockAssembler(), newMockStore())

		convey.Convey("Then a CPU-based default is applied", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
