package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ytget/spotgram/internal/model"
)

// statsRounding trims sub-millisecond noise from logged batch timings
const statsRounding = time.Millisecond

// Resolver turns a submitted link into a batch of tracks for one user
type Resolver interface {
	Resolve(ctx context.Context, userID int64, link string) (*model.Batch, error)
}

// BatchRunner processes one resolved batch to completion
type BatchRunner interface {
	Run(ctx context.Context, userID int64, batch *model.Batch) model.BatchStats
}

// Events surfaces queue-level outcomes. Nil callbacks are skipped.
type Events struct {
	OnResolveError func(userID int64, link string, err error)
	OnBatchStart   func(userID int64, batch *model.Batch)
	OnBatchDone    func(userID int64, batch *model.Batch, stats model.BatchStats)
}

// Manager owns one queue per user and drains each sequentially
type Manager struct {
	mu     sync.Mutex
	users  map[int64]*userQueue
	resolv Resolver
	runner BatchRunner
	events Events
}

// userQueue holds the pending links and drain state for one user.
// Guarded by its own lock so users never contend with each other.
type userQueue struct {
	mu      sync.Mutex
	state   model.QueueState
	pending []string
}

// NewManager creates a queue manager
func NewManager(resolver Resolver, runner BatchRunner, events Events) *Manager {
	return &Manager{
		users:  make(map[int64]*userQueue),
		resolv: resolver,
		runner: runner,
		events: events,
	}
}

// Enqueue appends a link to the user's queue. If the queue was idle the
// drain loop starts; if a drain is already running the link waits its turn.
func (m *Manager) Enqueue(ctx context.Context, userID int64, link string) {
	q := m.userQueue(userID)

	q.mu.Lock()
	q.pending = append(q.pending, link)
	startDrain := q.state == model.QueueStateIdle
	if startDrain {
		q.state = model.QueueStateProcessing
	}
	q.mu.Unlock()

	if startDrain {
		go m.drain(ctx, userID, q)
	}
}

// Clear empties the user's pending links. A batch already handed to the
// runner is not interrupted.
func (m *Manager) Clear(userID int64) int {
	q := m.userQueue(userID)

	q.mu.Lock()
	defer q.mu.Unlock()
	dropped := len(q.pending)
	q.pending = nil
	return dropped
}

// PeekAll returns a snapshot of the pending links in FIFO order
func (m *Manager) PeekAll(userID int64) []string {
	q := m.userQueue(userID)

	q.mu.Lock()
	defer q.mu.Unlock()
	snapshot := make([]string, len(q.pending))
	copy(snapshot, q.pending)
	return snapshot
}

// State returns the user's current drain state
func (m *Manager) State(userID int64) model.QueueState {
	q := m.userQueue(userID)

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// userQueue returns the queue for a user, creating it on first use
func (m *Manager) userQueue(userID int64) *userQueue {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, exists := m.users[userID]
	if !exists {
		q = &userQueue{state: model.QueueStateIdle}
		m.users[userID] = q
	}
	return q
}

// drain works through the user's pending links strictly sequentially.
// A failed resolution is reported and the loop continues with the next
// link; it never aborts the whole queue.
func (m *Manager) drain(ctx context.Context, userID int64, q *userQueue) {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.state = model.QueueStateIdle
			q.mu.Unlock()
			return
		}
		link := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		batch, err := m.resolv.Resolve(ctx, userID, link)
		if err != nil {
			log.Printf("User %d: failed to resolve %s: %v", userID, link, err)
			if m.events.OnResolveError != nil {
				m.events.OnResolveError(userID, link, err)
			}
			continue
		}

		if m.events.OnBatchStart != nil {
			m.events.OnBatchStart(userID, batch)
		}

		// Synchronous with respect to the queue: the next link is not
		// dequeued until the batch barrier releases.
		stats := m.runner.Run(ctx, userID, batch)

		log.Printf("User %d: finished %q (%d ok, %d failed, %d bytes in %s)",
			userID, batch.DisplayName, stats.SuccessCount, stats.FailureCount,
			stats.TotalBytes, stats.Elapsed.Round(statsRounding))

		if m.events.OnBatchDone != nil {
			m.events.OnBatchDone(userID, batch, stats)
		}
	}
}
