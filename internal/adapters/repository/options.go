package repository

import "time"

// Default store configuration constants.
const (
	defaultMaxSessions   = 10000
	defaultIdleTTL       = 2 * time.Hour
	defaultSweepInterval = time.Minute
)

type settings struct {
	maxSessions   int
	idleTTL       time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// Option applies a configuration option to the MemoryStore.
type Option func(*settings)

// WithMaxSessions bounds the number of live sessions. When full, the least
// recently used session is evicted to make room.
func WithMaxSessions(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithIdleTTL sets how long an untouched session survives. Zero disables
// idle expiry.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl >= 0 {
			s.idleTTL = ttl
		}
	}
}

// WithSweepInterval sets the interval of the background expiry sweep.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
