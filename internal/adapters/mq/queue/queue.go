// Package queue buffers rewards between the games that earn them and the
// worker that applies them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/netninja/internal/domain/model"
	"github.com/okian/netninja/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Reward is the payload flowing through the queue.
type Reward = model.Reward

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a reward without blocking. It fails with ErrFull when
	// the buffer is full and ErrClosed after Close.
	Enqueue(ctx context.Context, r Reward) error

	// Dequeue returns a channel that receives rewards in FIFO order.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Reward

	// Len returns the number of buffered rewards.
	Len() int

	// Close stops accepting rewards. Buffered rewards stay readable.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	rewards  chan Reward
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.rewards = make(chan Reward, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a reward to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Reward) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		return err
	}

	select {
	case q.rewards <- r:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.rewards))
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		return ErrFull
	}
}

// Dequeue returns a channel that will receive rewards as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Reward {
	out := make(chan Reward)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-q.rewards:
				if !ok {
					return
				}
				select {
				case out <- r:
					metrics.RecordQueueDequeue()
					metrics.UpdateQueueSize(len(q.rewards))
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued rewards.
func (q *InMemoryQueue) Len() int {
	return len(q.rewards)
}

// Close gracefully shuts down the queue. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.rewards)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
