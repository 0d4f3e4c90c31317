// Package offline implements the recommendation service without any
// external model. Answers are assembled from a small built-in catalog and
// delayed by a simulated latency, so the rest of the system behaves as it
// does against the real service.
package offline

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/domain/model"
)

// Default configuration constants.
const (
	defaultMinLatency = 300 * time.Millisecond
	defaultMaxLatency = 900 * time.Millisecond
	defaultRandomSeed = 42
	maxScoreValue     = 100
	stepsPerPhase     = 2
)

// Option applies a configuration option to the Recommender.
type Option func(*Recommender)

// WithLatencyRange sets the simulated latency range. A zero range disables
// the delay.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(r *Recommender) {
		if minLatency >= 0 && maxLatency >= minLatency {
			r.minLatency = minLatency
			r.maxLatency = maxLatency
		}
	}
}

// WithSeed reseeds the latency jitter.
func WithSeed(seed int64) Option {
	return func(r *Recommender) {
		r.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // jitter only
	}
}

// Recommender answers from the built-in catalog.
type Recommender struct {
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

var _ recommender.Recommender = (*Recommender)(nil)

// New creates an offline recommender.
func New(opts ...Option) *Recommender {
	r := &Recommender{
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic jitter
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// wait simulates the service latency, honoring ctx.
func (r *Recommender) wait(ctx context.Context) error {
	latency := r.minLatency
	if span := r.maxLatency - r.minLatency; span > 0 {
		r.mu.Lock()
		latency += time.Duration(r.rng.Int63n(int64(span)))
		r.mu.Unlock()
	}
	if latency == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// RecommendClusters ranks the catalog by overlap with the answers and
// returns the best three clusters.
func (r *Recommender) RecommendClusters(ctx context.Context, req recommender.ClustersRequest) (model.CareerRecs, error) {
	if err := r.wait(ctx); err != nil {
		return model.CareerRecs{}, err
	}

	type scored struct {
		entry clusterEntry
		score float64
	}
	ranked := make([]scored, 0, len(catalog))
	for _, e := range catalog {
		ranked = append(ranked, scored{entry: e, score: e.score(req)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	recs := model.CareerRecs{
		PersonalityMap: personalityMap(req.PersonalityTraits),
		InterestCloud:  interestCloud(req),
		SkillGraph:     skillGraph(req.UserSkills),
	}
	for _, s := range ranked[:3] {
		c := model.CareerCluster{
			Cluster:          s.entry.name,
			Description:      s.entry.description,
			SuccessPotential: s.score,
		}
		for i, role := range s.entry.roles {
			c.JobRoles = append(c.JobRoles, model.JobRole{
				Title:           role,
				MatchPercentage: clamp(s.score - float64(5*i)),
			})
		}
		recs.CareerClusters = append(recs.CareerClusters, c)
	}
	return recs, nil
}

// GenerateRoadmap builds the smallest phase count allowed for the timeline,
// each phase with steps carrying one free and one paid resource.
func (r *Recommender) GenerateRoadmap(ctx context.Context, req recommender.RoadmapRequest) (model.Roadmap, error) {
	if err := r.wait(ctx); err != nil {
		return model.Roadmap{}, err
	}
	entry := lookup(req.CareerPath)
	existing, missing := gap(entry.coreSkills, req.UserSkills)

	phases, _ := req.Timeline.PhaseRange()
	out := model.Roadmap{
		GapAnalysis: model.GapAnalysis{
			ExistingSkills: existing,
			MissingSkills:  missing,
			Summary: fmt.Sprintf("You already cover %d of %d core skills for %s; focus on %s.",
				len(existing), len(entry.coreSkills), req.CareerPath, listOrNothing(missing)),
		},
	}
	topics := append(append([]string{}, missing...), entry.coreSkills...)
	for p := 0; p < phases; p++ {
		phase := model.RoadmapPhase{Title: fmt.Sprintf("Phase %d: %s", p+1, phaseName(p, phases))}
		for s := 0; s < stepsPerPhase; s++ {
			topic := topics[(p*stepsPerPhase+s)%len(topics)]
			phase.Steps = append(phase.Steps, model.RoadmapStep{
				Title:     fmt.Sprintf("%s: %s", verbFor(p, phases), topic),
				Resources: resourcesFor(topic, model.LearningStyle(req.LearningStyle)),
			})
		}
		out.Roadmap = append(out.Roadmap, phase)
	}
	return out, nil
}

// SuggestMentors returns three fictional mentors for the career.
func (r *Recommender) SuggestMentors(ctx context.Context, req recommender.MentorsRequest) ([]model.Mentor, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	entry := lookup(req.CareerPath)
	mentors := make([]model.Mentor, 0, len(mentorNames))
	for i, name := range mentorNames {
		expertise := []string{entry.coreSkills[i%len(entry.coreSkills)], entry.coreSkills[(i+1)%len(entry.coreSkills)]}
		reason := fmt.Sprintf("%s has guided many newcomers into %s roles.", name, req.CareerPath)
		if len(req.UserSkills) > 0 {
			reason = fmt.Sprintf("%s can help you build on %s toward a %s role.",
				name, req.UserSkills[i%len(req.UserSkills)], req.CareerPath)
		}
		mentors = append(mentors, model.Mentor{
			Name:      name,
			Title:     mentorTitles[i],
			Company:   mentorCompanies[i],
			Expertise: expertise,
			Reason:    reason,
		})
	}
	return mentors, nil
}

// ExplainCareer describes a career from the catalog.
func (r *Recommender) ExplainCareer(ctx context.Context, req recommender.ExplainRequest) (model.CareerExplanation, error) {
	if err := r.wait(ctx); err != nil {
		return model.CareerExplanation{}, err
	}
	entry := lookup(req.Career)
	skills := entry.coreSkills
	if len(skills) > 5 {
		skills = skills[:5]
	}
	return model.CareerExplanation{
		Title: req.Career,
		Summary: fmt.Sprintf("A %s works within %s. %s", req.Career, strings.ToLower(entry.name),
			entry.description),
		DayInTheLife: fmt.Sprintf("A typical day mixes focused work on %s with reviews, planning and collaboration with the wider team.",
			strings.ToLower(skills[0])),
		CoreSkills:    append([]string{}, skills...),
		FutureOutlook: entry.outlook,
	}, nil
}

// SimulateImpact combines the new skill with the closest catalog roles.
func (r *Recommender) SimulateImpact(ctx context.Context, req recommender.ImpactRequest) (model.ImpactSimulation, error) {
	if err := r.wait(ctx); err != nil {
		return model.ImpactSimulation{}, err
	}
	entry := lookup(req.NewSkill)
	out := model.ImpactSimulation{
		Summary: fmt.Sprintf("Adding %s to %s within %s opens doors in %s.",
			req.NewSkill, listOrNothing(req.CurrentSkills), req.Timeline, entry.name),
	}
	for i := 0; i < 2 && i < len(entry.roles); i++ {
		out.EmergingRoles = append(out.EmergingRoles, model.EmergingRole{
			Role: entry.roles[i],
			Description: fmt.Sprintf("%s pairs %s with skills you already have, a combination few candidates offer.",
				entry.roles[i], req.NewSkill),
		})
	}
	return out, nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScoreValue, v))
}

func listOrNothing(items []string) string {
	if len(items) == 0 {
		return "nothing yet"
	}
	return strings.Join(items, ", ")
}

func phaseName(p, total int) string {
	switch {
	case p == 0:
		return "Foundations"
	case p == total-1:
		return "Portfolio & Job Readiness"
	case p < total/2:
		return "Core Skills"
	default:
		return "Advanced Topics & Specialization"
	}
}

func verbFor(p, total int) string {
	switch {
	case p == 0:
		return "Learn the basics of"
	case p == total-1:
		return "Ship a project using"
	default:
		return "Practice"
	}
}

func resourcesFor(topic string, style model.LearningStyle) []model.Resource {
	q := strings.ReplaceAll(strings.ToLower(topic), " ", "+")
	free := model.Resource{Name: "freeCodeCamp: " + topic, Type: model.ResourceFree, URL: "https://www.freecodecamp.org/news/search/?query=" + q}
	paid := model.Resource{Name: "Coursera: " + topic, Type: model.ResourcePaid, URL: "https://www.coursera.org/search?query=" + q}
	switch style {
	case model.LearningStyleVisual:
		free = model.Resource{Name: "YouTube: " + topic + " full course", Type: model.ResourceFree, URL: "https://www.youtube.com/results?search_query=" + q}
	case model.LearningStyleTheory:
		free = model.Resource{Name: "NPTEL: " + topic, Type: model.ResourceFree, URL: "https://nptel.ac.in/courses?search=" + q}
		paid = model.Resource{Name: "O'Reilly: " + topic, Type: model.ResourcePaid, URL: "https://www.oreilly.com/search/?q=" + q}
	case model.LearningStylePractical:
		paid = model.Resource{Name: "Udemy: " + topic + " bootcamp", Type: model.ResourcePaid, URL: "https://www.udemy.com/courses/search/?q=" + q}
	}
	return []model.Resource{free, paid}
}

func gap(core, have []string) (existing, missing []string) {
	existing, missing = []string{}, []string{}
	for _, skill := range core {
		if containsFold(have, skill) {
			existing = append(existing, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return existing, missing
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

func personalityMap(traits string) string {
	if traits == "" {
		return "No personality answers were given, so the profile leans on skills and interests."
	}
	return "You come across as " + traits + "."
}

func interestCloud(req recommender.ClustersRequest) []string {
	cloud := []string{}
	for _, i := range req.Interests {
		cloud = append(cloud, strings.ReplaceAll(i, "-", " "))
	}
	for _, s := range req.LifeSkills {
		cloud = append(cloud, strings.ReplaceAll(s, "-", " "))
	}
	return cloud
}

func skillGraph(skills []string) []model.SkillLevel {
	graph := []model.SkillLevel{}
	for i, s := range skills {
		if s == "" {
			continue
		}
		graph = append(graph, model.SkillLevel{Name: s, Level: clamp(70 - float64(10*i))})
	}
	return graph
}
