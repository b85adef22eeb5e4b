// Package queue buffers submitted games between the HTTP layer and the
// workers that record them into the open rating period.
package queue

import (
	"context"
	"sync"

	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/pkg/metrics"
)

const defaultQueueCapacity = 100000

// Game is the payload flowing through the queue.
type Game = model.Game

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a game without blocking. It returns ErrFull or ErrClosed
	// when the game was not accepted.
	Enqueue(ctx context.Context, g Game) error

	// Dequeue returns a channel of games. The channel is closed once the
	// queue is closed and drained, or when ctx ends.
	Dequeue(ctx context.Context) <-chan Game

	// Len returns the current number of queued games.
	Len(ctx context.Context) int

	// Close stops accepting games. Games already queued can still be dequeued.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	games    chan Game
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.games = make(chan Game, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.Enqueue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, g Game) error { //nolint:gocritic // hugeParam: channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return ctx.Err()
	default:
	}

	select {
	case q.games <- g:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.games))
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue implements Queue.Dequeue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Game {
	out := make(chan Game)
	go func() {
		defer close(out)
		for g := range q.games {
			select {
			case out <- g:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.games))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len implements Queue.Len.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.games)
	metrics.UpdateQueueSize(size)
	return size
}

// Close implements Queue.Close. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.games)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
