// Package dashboard coordinates the career dashboard: which cluster and
// timeline are selected, the roadmap and mentor fetches that depend on
// them, and the on-demand explanation.
//
// Every selection bumps a generation counter. Background results carry the
// generation they were issued for and are dropped when it is no longer
// current, so a slow answer for an old selection never replaces a newer one.
package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
	"github.com/okian/careermap/pkg/logger"
	"github.com/okian/careermap/pkg/metrics"
)

// Background task kinds.
const (
	KindRoadmap  = "roadmap"
	KindMentors  = "mentors"
	KindExplain  = "explain"
	KindSimulate = "simulate"
)

// Dispatcher runs work in the background. It must not run fn inline
// while the caller waits on it.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind string, fn func(ctx context.Context)) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithSessionID tags logs with the owning session.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides time.Now for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type explanationState struct {
	open    bool
	loading bool
	career  string
	value   *model.CareerExplanation
	tag     uint64
}

// Controller holds one dashboard's state. It is safe for concurrent use.
type Controller struct {
	rec       recommender.Recommender
	dispatch  Dispatcher
	answers   model.AssessmentAnswers
	sessionID string
	logger    logger.Logger
	now       func() time.Time

	mu             sync.Mutex
	recs           model.CareerRecs
	cluster        string
	chosen         bool
	timeline       model.Timeline
	generation     uint64
	roadmap        *roadmap.Roadmap
	roadmapLoading bool
	mentors        []model.Mentor
	mentorsLoading bool
	explanation    explanationState
	explainSeq     uint64
	simulation     *model.ImpactSimulation
	simulateSeq    uint64
	notifications  []Notification
}

// job is background work prepared under the lock and dispatched after it.
type job struct {
	kind string
	tag  uint64
	run  func(ctx context.Context)
}

// New creates a controller for the submitted answers.
func New(rec recommender.Recommender, d Dispatcher, answers model.AssessmentAnswers, opts ...Option) *Controller {
	c := &Controller{
		rec:      rec,
		dispatch: d,
		answers:  answers.Clone(),
		timeline: model.DefaultTimeline,
		logger:   logger.Get().Named("dashboard"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID != "" {
		c.logger = c.logger.With(logger.String("session", c.sessionID))
	}
	return c
}

// Answers returns the assessment answers the dashboard was built from.
func (c *Controller) Answers() model.AssessmentAnswers { return c.answers.Clone() }

// LoadRecommendations stores the cluster recommendations. The first
// cluster is selected automatically unless one was already chosen.
func (c *Controller) LoadRecommendations(ctx context.Context, recs model.CareerRecs) {
	c.mu.Lock()
	c.recs = recs
	var jobs []job
	if !c.chosen && len(recs.CareerClusters) > 0 {
		c.cluster = recs.CareerClusters[0].Cluster
		c.chosen = true
		jobs = c.regenerateLocked()
	}
	c.mu.Unlock()
	_ = c.run(ctx, jobs)
}

// SelectCluster selects a cluster and regenerates its roadmap and mentors.
// Selecting the current cluster again retries both fetches.
func (c *Controller) SelectCluster(ctx context.Context, name string) error {
	c.mu.Lock()
	if _, ok := c.recs.Cluster(name); !ok {
		c.mu.Unlock()
		return ErrUnknownCluster
	}
	c.cluster = name
	c.chosen = true
	jobs := c.regenerateLocked()
	c.mu.Unlock()

	return c.run(ctx, jobs)
}

// SelectTimeline changes the roadmap timeline. With a cluster selected,
// the roadmap and mentors are regenerated.
func (c *Controller) SelectTimeline(ctx context.Context, value string) error {
	t, err := model.ParseTimeline(value)
	if err != nil {
		return ErrInvalidTimeline
	}
	c.mu.Lock()
	c.timeline = t
	var jobs []job
	if c.cluster != "" {
		jobs = c.regenerateLocked()
	}
	c.mu.Unlock()

	return c.run(ctx, jobs)
}

// regenerateLocked clears the dependent regions and prepares both fetches
// for the current selection. c.mu must be held.
func (c *Controller) regenerateLocked() []job {
	c.generation++
	tag := c.generation
	c.roadmap = nil
	c.roadmapLoading = true
	c.mentors = nil
	c.mentorsLoading = true

	roadmapReq := recommender.RoadmapRequest{
		CareerPath:     c.cluster,
		UserSkills:     append([]string(nil), c.answers.UserSkills...),
		UserExperience: c.answers.UserExperience,
		LearningStyle:  string(c.answers.LearningStyle),
		Timeline:       c.timeline,
	}
	mentorsReq := recommender.MentorsRequest{
		CareerPath: c.cluster,
		UserSkills: append([]string(nil), c.answers.UserSkills...),
	}

	c.logger.Debug(context.Background(), "regenerating dashboard",
		logger.String("cluster", c.cluster),
		logger.String("timeline", string(c.timeline)),
		logger.Any("generation", tag),
	)

	return []job{
		{kind: KindRoadmap, tag: tag, run: func(ctx context.Context) {
			rm, err := c.rec.GenerateRoadmap(ctx, roadmapReq)
			c.applyRoadmap(tag, rm, err)
		}},
		{kind: KindMentors, tag: tag, run: func(ctx context.Context) {
			mentors, err := c.rec.SuggestMentors(ctx, mentorsReq)
			c.applyMentors(tag, mentors, err)
		}},
	}
}

// run dispatches jobs. A refused job ends its region's loading state; the
// first refusal is returned.
func (c *Controller) run(ctx context.Context, jobs []job) error {
	var first error
	for _, j := range jobs {
		if err := c.dispatch.Dispatch(ctx, j.kind, j.run); err != nil {
			c.logger.Warn(ctx, "background task refused", logger.String("kind", j.kind), logger.Error(err))
			c.refused(j, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (c *Controller) refused(j job, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch j.kind {
	case KindRoadmap:
		if j.tag == c.generation {
			c.roadmapLoading = false
		}
	case KindMentors:
		if j.tag == c.generation {
			c.mentorsLoading = false
		}
	case KindExplain:
		if j.tag == c.explanation.tag {
			c.explanation = explanationState{tag: c.explanation.tag}
		}
	}
	c.notifyLocked("warning", TitleBusy, err.Error())
}

func (c *Controller) applyRoadmap(tag uint64, rm model.Roadmap, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag != c.generation {
		c.stale(KindRoadmap, tag)
		return
	}
	c.roadmapLoading = false
	if err != nil {
		c.notifyLocked("error", TitleRoadmapFailed, err.Error())
		return
	}
	r := roadmap.Initialize(rm)
	c.roadmap = &r
}

func (c *Controller) applyMentors(tag uint64, mentors []model.Mentor, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag != c.generation {
		c.stale(KindMentors, tag)
		return
	}
	c.mentorsLoading = false
	if err != nil {
		c.notifyLocked("error", TitleMentorsFailed, err.Error())
		return
	}
	c.mentors = append([]model.Mentor(nil), mentors...)
}

func (c *Controller) stale(kind string, tag uint64) {
	metrics.RecordStaleResponse(kind)
	c.logger.Debug(context.Background(), "dropping stale response",
		logger.String("kind", kind),
		logger.Any("tag", tag),
		logger.Any("generation", c.generation),
	)
}

// ToggleStep flips a roadmap step.
func (c *Controller) ToggleStep(phase, step int) (roadmap.Progress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.roadmap == nil {
		return roadmap.Progress{}, ErrNoRoadmap
	}
	if !c.roadmap.Contains(phase, step) {
		return roadmap.Progress{}, ErrStepOutOfRange
	}
	r := roadmap.ToggleStep(*c.roadmap, phase, step)
	c.roadmap = &r
	metrics.RecordStepToggle()
	return roadmap.ComputeProgress(r), nil
}

// ExplainCareer opens the explanation surface and fetches the explanation
// in the background. A newer request supersedes an older one.
func (c *Controller) ExplainCareer(ctx context.Context, career string) error {
	career = strings.TrimSpace(career)
	if career == "" {
		return ErrEmptyCareer
	}
	c.mu.Lock()
	c.explainSeq++
	tag := c.explainSeq
	c.explanation = explanationState{open: true, loading: true, career: career, tag: tag}
	c.mu.Unlock()

	req := recommender.ExplainRequest{Career: career}
	return c.run(ctx, []job{{kind: KindExplain, tag: tag, run: func(ctx context.Context) {
		exp, err := c.rec.ExplainCareer(ctx, req)
		c.applyExplanation(tag, exp, err)
	}}})
}

func (c *Controller) applyExplanation(tag uint64, exp model.CareerExplanation, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag != c.explanation.tag || !c.explanation.open {
		c.stale(KindExplain, tag)
		return
	}
	if err != nil {
		c.explanation = explanationState{tag: tag}
		c.notifyLocked("error", TitleExplainFailed, err.Error())
		return
	}
	c.explanation.loading = false
	c.explanation.value = &exp
}

// DismissExplanation closes the explanation surface. A response still in
// flight is discarded when it arrives.
func (c *Controller) DismissExplanation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.explainSeq++
	c.explanation = explanationState{tag: c.explainSeq}
}

// SimulateImpact asks how learning newSkill would change the user's
// prospects. The call is synchronous. An empty timeline uses the
// selected one. The caller always gets its own result, but only the
// latest request is kept on the dashboard.
func (c *Controller) SimulateImpact(ctx context.Context, newSkill, timeline string) (model.ImpactSimulation, error) {
	newSkill = strings.TrimSpace(newSkill)
	if newSkill == "" {
		return model.ImpactSimulation{}, ErrEmptySkill
	}
	c.mu.Lock()
	if timeline == "" {
		timeline = string(c.timeline)
	}
	c.simulateSeq++
	tag := c.simulateSeq
	c.mu.Unlock()

	sim, err := c.rec.SimulateImpact(ctx, recommender.ImpactRequest{
		CurrentSkills: append([]string(nil), c.answers.UserSkills...),
		NewSkill:      newSkill,
		Timeline:      timeline,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.notifyLocked("error", TitleSimulationFailed, err.Error())
		return model.ImpactSimulation{}, err
	}
	if tag != c.simulateSeq {
		c.stale(KindSimulate, tag)
		return sim, nil
	}
	c.simulation = &sim
	return sim, nil
}

func (c *Controller) notifyLocked(kind, title, message string) {
	metrics.RecordNotification(kind)
	c.notifications = append(c.notifications, Notification{
		Kind:    kind,
		Title:   title,
		Message: message,
		At:      c.now(),
	})
}

// DrainNotifications returns and clears pending notifications.
func (c *Controller) DrainNotifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notifications
	c.notifications = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Snapshot returns the current state with derived progress and badges.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Recommendations: c.recs,
		SelectedCluster: c.cluster,
		Timeline:        c.timeline,
		Generation:      c.generation,
		Roadmap: RoadmapView{
			Loading:         c.roadmapLoading,
			CompletedPhases: []int{},
			Badges:          []roadmap.Badge{},
		},
		Mentors: MentorsView{
			Loading: c.mentorsLoading,
			Mentors: append([]model.Mentor{}, c.mentors...),
		},
		Explanation: ExplanationView{
			Open:    c.explanation.open,
			Loading: c.explanation.loading,
			Career:  c.explanation.career,
		},
		Notifications: len(c.notifications),
	}
	// Roadmaps are replaced, never mutated, so sharing the value is safe.
	if c.roadmap != nil {
		r := *c.roadmap
		v.Roadmap.Roadmap = &r
		v.Roadmap.Progress = roadmap.ComputeProgress(r)
		v.Roadmap.CompletedPhases = roadmap.CompletedPhases(r)
		v.Roadmap.Badges = roadmap.Badges(r)
	}
	if c.explanation.value != nil {
		exp := *c.explanation.value
		v.Explanation.Explanation = &exp
	}
	if c.simulation != nil {
		sim := *c.simulation
		v.Simulation = &sim
	}
	return v
}
