package worker

import (
	"errors"
	"sync/atomic"

	"github.com/okian/careermap/pkg/logger"
)

var (
	// ErrTaskPanicked reports a task whose Run function panicked.
	ErrTaskPanicked = errors.New("task panicked")
	// ErrNoRunFunc reports a task enqueued without a Run function.
	ErrNoRunFunc = errors.New("task has no run function")
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// withCounter shares the processed-task counter with a pool.
func withCounter(c *atomic.Int64) Option {
	return func(w *InMemoryWorker) { w.processed = c }
}
