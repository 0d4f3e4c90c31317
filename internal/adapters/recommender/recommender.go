// Package recommender defines the contract of the recommendation service,
// the generative backend that turns assessment answers into career advice.
package recommender

import (
	"context"

	"github.com/okian/careermap/internal/domain/model"
)

// Operation names, used for logging, metrics and prompts.
const (
	OpRecommendClusters = "recommendClusters"
	OpGenerateRoadmap   = "generateRoadmap"
	OpSuggestMentors    = "suggestMentors"
	OpExplainCareer     = "explainCareer"
	OpSimulateImpact    = "simulateImpact"
)

// ClustersRequest asks for career clusters matching an assessment.
type ClustersRequest struct {
	PersonalityTraits string   `json:"personalityTraits"`
	UserSkills        []string `json:"userSkills"`
	LifeSkills        []string `json:"lifeSkills"`
	Interests         []string `json:"interests"`
}

// ClustersRequestFrom builds the request from submitted answers.
func ClustersRequestFrom(a model.AssessmentAnswers) ClustersRequest {
	return ClustersRequest{
		PersonalityTraits: a.PersonalityTraits,
		UserSkills:        a.UserSkills,
		LifeSkills:        a.LifeSkills,
		Interests:         a.Interests,
	}
}

// RoadmapRequest asks for a phased learning roadmap.
type RoadmapRequest struct {
	CareerPath     string         `json:"careerPath"`
	UserSkills     []string       `json:"userSkills"`
	UserExperience string         `json:"userExperience"`
	LearningStyle  string         `json:"learningStyle"`
	Timeline       model.Timeline `json:"timeline"`
}

// MentorsRequest asks for mentor suggestions.
type MentorsRequest struct {
	CareerPath string   `json:"careerPath"`
	UserSkills []string `json:"userSkills"`
}

// ExplainRequest asks for an in-depth career explanation.
type ExplainRequest struct {
	Career string `json:"career"`
}

// ImpactRequest asks how a new skill would change career prospects.
type ImpactRequest struct {
	CurrentSkills []string `json:"currentSkills"`
	NewSkill      string   `json:"newSkill"`
	Timeline      string   `json:"timeline"`
}

// Recommender is the recommendation service. Every failure, whether a
// transport error, an unparseable answer or a schema violation, is
// reported as ErrServiceCall.
type Recommender interface {
	RecommendClusters(ctx context.Context, req ClustersRequest) (model.CareerRecs, error)
	GenerateRoadmap(ctx context.Context, req RoadmapRequest) (model.Roadmap, error)
	SuggestMentors(ctx context.Context, req MentorsRequest) ([]model.Mentor, error)
	ExplainCareer(ctx context.Context, req ExplainRequest) (model.CareerExplanation, error)
	SimulateImpact(ctx context.Context, req ImpactRequest) (model.ImpactSimulation, error)
}
