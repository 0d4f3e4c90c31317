package service

import (
	"time"

	"github.com/okian/careermap/pkg/logger"
)

const (
	defaultQueueSize       = 1024
	defaultMaxSessions     = 10000
	defaultSessionTTL      = 2 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

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

// WithQueueSize sets the capacity of the background task queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an idle session survives. Zero keeps
// sessions until evicted.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.sessionTTL = d
		}
	}
}

// WithRequestTimeout bounds every recommendation call. Zero means no bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.requestTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for queued work.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
