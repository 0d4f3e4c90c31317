// Package repository keeps user sessions in memory. Nothing is persisted:
// a restart forgets every session.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/careermap/pkg/metrics"
)

// Store provides access to live sessions.
type Store[T any] interface {
	// Create stores v under a fresh id.
	Create(ctx context.Context, v T) (string, error)
	// Get returns the session and marks it as used.
	// Returns ErrNotFound if the id is unknown or expired.
	Get(ctx context.Context, id string) (T, error)
	// Delete drops a session. Unknown ids return ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}

type entry[T any] struct {
	value    T
	created  time.Time
	lastSeen time.Time
}

// MemoryStore is a bounded, expiring, in-memory Store.
type MemoryStore[T any] struct {
	settings

	mu       sync.RWMutex
	sessions map[string]*entry[T]
	closed   bool

	stopChan chan struct{}
	wg       sync.WaitGroup
}

var _ Store[int] = (*MemoryStore[int])(nil)

// NewMemoryStore creates a store and starts its expiry sweep, which runs
// until ctx is done or Close is called.
func NewMemoryStore[T any](ctx context.Context, opts ...Option) *MemoryStore[T] {
	s := &MemoryStore[T]{
		settings: settings{
			maxSessions:   defaultMaxSessions,
			idleTTL:       defaultIdleTTL,
			sweepInterval: defaultSweepInterval,
			now:           time.Now,
		},
		sessions: make(map[string]*entry[T]),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&s.settings)
	}
	metrics.UpdateSessionsActive(0)
	s.startSweeper(ctx)
	return s
}

// Create implements Store.
func (s *MemoryStore[T]) Create(_ context.Context, v T) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	id := uuid.NewString()
	now := s.now()
	s.sessions[id] = &entry[T]{value: v, created: now, lastSeen: now}

	metrics.RecordSessionCreated()
	metrics.UpdateSessionsActive(len(s.sessions))
	return id, nil
}

// Get implements Store.
func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return zero, ErrNotFound
	}
	now := s.now()
	if s.expired(e, now) {
		s.removeLocked(id)
		return zero, ErrNotFound
	}
	e.lastSeen = now
	return e.value, nil
}

// Delete implements Store.
func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	metrics.UpdateSessionsActive(len(s.sessions))
	return nil
}

// Count implements Store.
func (s *MemoryStore[T]) Count(context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the sweeper. Further Creates fail with ErrClosed.
func (s *MemoryStore[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			s.removeLocked(id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore[T]) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func (s *MemoryStore[T]) expired(e *entry[T], now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(e.lastSeen) > s.idleTTL
}

func (s *MemoryStore[T]) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID != "" {
		s.removeLocked(oldestID)
	}
}

func (s *MemoryStore[T]) removeLocked(id string) {
	delete(s.sessions, id)
	metrics.RecordSessionEvicted()
	metrics.UpdateSessionsActive(len(s.sessions))
}
