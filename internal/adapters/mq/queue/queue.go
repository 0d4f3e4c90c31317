// Package queue holds background work waiting for a worker: the
// recommendation calls a dashboard fires when the user picks a cluster,
// a timeline, or asks for an explanation.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/careermap/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Task is one unit of background work.
type Task struct {
	ID         string
	Kind       string
	SessionID  string
	EnqueuedAt time.Time
	// Run does the work. It must not block past ctx.
	Run func(ctx context.Context)
}

// NewTask creates a task with a fresh id.
func NewTask(kind, sessionID string, run func(ctx context.Context)) Task {
	return Task{
		ID:         uuid.NewString(),
		Kind:       kind,
		SessionID:  sessionID,
		EnqueuedAt: time.Now(),
		Run:        run,
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a task without blocking. It fails with ErrFull when the
	// queue is at capacity and with ErrClosed after Close.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue returns a channel delivering tasks. All callers share one
	// channel, closed once the queue is closed and drained. Callers watch
	// their own ctx.
	Dequeue(ctx context.Context) <-chan Task

	// Len returns the number of pending tasks.
	Len(ctx context.Context) int

	// Capacity returns the maximum number of pending tasks.
	Capacity() int

	// Close stops accepting tasks. Pending tasks are still delivered.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()
	return q
}

// Enqueue adds a task to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return fmt.Errorf("enqueue %s: %w", t.Kind, err)
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}

	select {
	case q.tasks <- t:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns the queue's task channel. Every caller receives the same
// channel, so a task goes to whichever worker is free first.
func (q *InMemoryQueue) Dequeue(context.Context) <-chan Task {
	return q.tasks
}

// Len returns the number of pending tasks.
func (q *InMemoryQueue) Len(context.Context) int {
	return q.observe()
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close stops accepting tasks.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// observe publishes size and utilization and returns the size.
func (q *InMemoryQueue) observe() int {
	size := len(q.tasks)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}
