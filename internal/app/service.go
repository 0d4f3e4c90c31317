// Package service ties sessions, the assessment wizard and the dashboard
// together and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/careermap/internal/adapters/mq/queue"
	"github.com/okian/careermap/internal/adapters/mq/worker"
	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/adapters/repository"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
	"github.com/okian/careermap/pkg/logger"
	"github.com/okian/careermap/pkg/metrics"
)

// Service implements the API dependencies for the career map.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend  recommender.Recommender
	rec      recommender.Recommender
	sessions *repository.MemoryStore[*Session]
	tasks    *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	maxSessions     int
	sessionTTL      time.Duration
	requestTimeout  time.Duration
	shutdownTimeout time.Duration

	started bool
	logger  logger.Logger
}

// New constructs a Service around a recommendation backend.
func New(rec recommender.Recommender, opts ...Option) *Service {
	s := &Service{
		backend:         rec,
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       defaultQueueSize,
		maxSessions:     defaultMaxSessions,
		sessionTTL:      defaultSessionTTL,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components. Background work
// runs until ctx is done or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.backend == nil {
		return errors.New("service: no recommender configured")
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting career map service...")

	s.sessions = repository.NewMemoryStore[*Session](ctx,
		repository.WithMaxSessions(s.maxSessions),
		repository.WithIdleTTL(s.sessionTTL),
	)
	s.tasks = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.tasks)
	s.pool.Start(ctx)
	s.rec = recommender.Instrument(s.backend,
		recommender.WithTimeout(s.requestTimeout),
		recommender.WithLogger(s.logger.Named("recommender")),
	)

	s.started = true
	s.logger.Info(ctx, "career map service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("sessionTTL", s.sessionTTL),
	)
	return nil
}

// Stop drains queued background work and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping career map service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "background work did not drain", logger.Error(err))
		s.pool.Stop()
	}
	_ = s.sessions.Close()

	s.started = false
	s.logger.Info(ctx, "career map service stopped")
}

// dispatcher feeds one session's dashboard jobs into the shared queue.
type dispatcher struct {
	tasks     queue.Queue
	sessionID string
}

func (d dispatcher) Dispatch(ctx context.Context, kind string, fn func(ctx context.Context)) error {
	return d.tasks.Enqueue(ctx, queue.NewTask(kind, d.sessionID, fn))
}

func (s *Service) components() (*repository.MemoryStore[*Session], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions, nil
}

// CreateSession starts a new session on the start view.
func (s *Service) CreateSession(ctx context.Context) (SessionView, error) {
	store, err := s.components()
	if err != nil {
		return SessionView{}, err
	}
	sess := newSession(time.Now())
	sess.mu.Lock()
	defer sess.mu.Unlock()
	id, err := store.Create(ctx, sess)
	if err != nil {
		return SessionView{}, fmt.Errorf("create session: %w", err)
	}
	sess.id = id
	s.logger.Debug(ctx, "session created", logger.String("session", id))
	return sess.snapshotLocked(), nil
}

func (s *Service) session(ctx context.Context, id string) (*Session, error) {
	store, err := s.components()
	if err != nil {
		return nil, err
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", id, err)
	}
	return sess, nil
}

// GetSession returns a snapshot of the session.
func (s *Service) GetSession(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

// DeleteSession forgets a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, err := s.components()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("session %q: %w", id, err)
	}
	return nil
}

// StartAssessment opens a fresh wizard on its first step.
func (s *Service) StartAssessment(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.view != ViewStart {
		return SessionView{}, fmt.Errorf("%w: start assessment from %s", ErrWrongView, sess.view)
	}
	sess.view = ViewAssessment
	sess.wizard = assessment.NewWizard()
	return sess.snapshotLocked(), nil
}

// NextStep stores the current wizard step and moves forward.
func (s *Service) NextStep(ctx context.Context, id string, form assessment.Form) (SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.view != ViewAssessment {
		return SessionView{}, fmt.Errorf("%w: next step from %s", ErrWrongView, sess.view)
	}
	if err := sess.wizard.Next(form); err != nil {
		return SessionView{}, err
	}
	return sess.snapshotLocked(), nil
}

// SubmitAssessment validates the wizard, asks for cluster recommendations
// and opens the dashboard. The call blocks until recommendations arrive;
// meanwhile the session reports the loading view. On failure the session
// returns to the last wizard step with its answers intact.
func (s *Service) SubmitAssessment(ctx context.Context, id string, form assessment.Form) (SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	if sess.view != ViewAssessment {
		sess.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: submit from %s", ErrWrongView, sess.view)
	}
	answers, err := sess.wizard.Submit(form)
	if err != nil {
		sess.mu.Unlock()
		metrics.RecordAssessmentSubmitted("invalid")
		return SessionView{}, err
	}
	sess.view = ViewLoading
	sess.answers = &answers
	sess.mu.Unlock()

	s.mu.RLock()
	rec, tasks := s.rec, s.tasks
	s.mu.RUnlock()

	recs, err := rec.RecommendClusters(ctx, recommender.ClustersRequestFrom(answers))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		sess.view = ViewAssessment
		sess.notifyLocked("error", TitleRecommendationsFailed, MessageRecommendationsFailed)
		metrics.RecordAssessmentSubmitted("error")
		s.logger.Error(ctx, "assessment submission failed",
			logger.String("session", sess.id),
			logger.Error(err),
		)
		return SessionView{}, err
	}

	sess.dashboard = dashboard.New(rec, dispatcher{tasks: tasks, sessionID: sess.id}, answers,
		dashboard.WithSessionID(sess.id),
		dashboard.WithLogger(s.logger.Named("dashboard")),
	)
	sess.dashboard.LoadRecommendations(ctx, recs)
	sess.view = ViewDashboard
	metrics.RecordAssessmentSubmitted("ok")
	s.logger.Info(ctx, "dashboard opened",
		logger.String("session", sess.id),
		logger.Int("clusters", len(recs.CareerClusters)),
	)
	return sess.snapshotLocked(), nil
}

// Restart sends the session back to the start view and clears everything
// it collected.
func (s *Service) Restart(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.view == ViewLoading {
		return SessionView{}, fmt.Errorf("%w: restart while loading", ErrWrongView)
	}
	sess.view = ViewStart
	sess.wizard = nil
	sess.answers = nil
	sess.dashboard = nil
	sess.notifications = nil
	return sess.snapshotLocked(), nil
}

// dashboardFor returns the session's dashboard, failing outside the dashboard view.
func (s *Service) dashboardFor(ctx context.Context, id string) (*dashboard.Controller, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.view != ViewDashboard || sess.dashboard == nil {
		return nil, fmt.Errorf("%w: dashboard not open", ErrWrongView)
	}
	return sess.dashboard, nil
}

// SelectCluster switches the dashboard to another recommended cluster.
func (s *Service) SelectCluster(ctx context.Context, id, cluster string) (dashboard.View, error) {
	d, err := s.dashboardFor(ctx, id)
	if err != nil {
		return dashboard.View{}, err
	}
	if err := d.SelectCluster(ctx, cluster); err != nil {
		return dashboard.View{}, err
	}
	return d.Snapshot(), nil
}

// SelectTimeline switches the roadmap timeline.
func (s *Service) SelectTimeline(ctx context.Context, id, timeline string) (dashboard.View, error) {
	d, err := s.dashboardFor(ctx, id)
	if err != nil {
		return dashboard.View{}, err
	}
	if err := d.SelectTimeline(ctx, timeline); err != nil {
		return dashboard.View{}, err
	}
	return d.Snapshot(), nil
}

// ToggleStep flips a roadmap step and returns the new progress.
func (s *Service) ToggleStep(ctx context.Context, id string, phase, step int) (roadmap.Progress, error) {
	d, err := s.dashboardFor(ctx, id)
	if err != nil {
		return roadmap.Progress{}, err
	}
	return d.ToggleStep(phase, step)
}

// ExplainCareer opens the explanation surface for a career.
func (s *Service) ExplainCareer(ctx context.Context, id, career string) (dashboard.View, error) {
	d, err := s.dashboardFor(ctx, id)
	if err != nil {
		return dashboard.View{}, err
	}
	if err := d.ExplainCareer(ctx, career); err != nil {
		return dashboard.View{}, err
	}
	return d.Snapshot(), nil
}

// DismissExplanation closes the explanation surface.
func (s *Service) DismissExplanation(ctx context.Context, id string) (dashboard.View, error) {
	d, err := s.dashboardFor(ctx, id)
	if err != nil {
		return dashboard.View{}, err
	}
	d.DismissExplanation()
	return d.Snapshot(), nil
}

// SimulateImpact runs a skill impact simulation synchronously.
func (s *Service) SimulateImpact(ctx context.Context, id, newSkill, timeline string) (model.ImpactSimulation, error) {
	d, err := s.dashboardFor(ctx, id)
	if err != nil {
		return model.ImpactSimulation{}, err
	}
	return d.SimulateImpact(ctx, newSkill, timeline)
}

// DrainNotifications returns and clears the session's pending notifications,
// oldest first.
func (s *Service) DrainNotifications(ctx context.Context, id string) ([]dashboard.Notification, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := append([]dashboard.Notification{}, sess.notifications...)
	sess.notifications = nil
	if sess.dashboard != nil {
		out = append(out, sess.dashboard.DrainNotifications()...)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"maxSessions": s.maxSessions,
	}
	if s.started {
		stats["workerCount"] = s.pool.Size()
		stats["queueLength"] = s.tasks.Len(ctx)
		stats["tasksProcessed"] = s.pool.Processed()
		stats["activeSessions"] = s.sessions.Count(ctx)
	}
	return stats
}
