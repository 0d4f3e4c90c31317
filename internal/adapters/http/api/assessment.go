package api

import (
	"net/http"

	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/model"
)

// questionnaire is everything a client needs to render the wizard.
type questionnaire struct {
	TotalSteps     int                   `json:"totalSteps"`
	Questions      []assessment.Question `json:"questions"`
	Interests      []assessment.Tag      `json:"interests"`
	LifeSkills     []assessment.Tag      `json:"lifeSkills"`
	LearningStyles []model.LearningStyle `json:"learningStyles"`
	Timelines      []model.Timeline      `json:"timelines"`
}

// AssessmentHandler serves the fixed assessment tables.
type AssessmentHandler struct{}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler() *AssessmentHandler {
	return &AssessmentHandler{}
}

// HandleQuestions handles GET /assessment/questions.
func (h *AssessmentHandler) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, questionnaire{
		TotalSteps:     assessment.TotalSteps,
		Questions:      assessment.Questions,
		Interests:      assessment.Interests,
		LifeSkills:     assessment.LifeSkills,
		LearningStyles: model.LearningStyles,
		Timelines:      model.Timelines,
	})
}
