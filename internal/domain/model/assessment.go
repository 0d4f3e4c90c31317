// Package model contains the career domain types exchanged between the
// wizard, the dashboard and the recommendation service.
package model

// LearningStyle is the user's preferred way of learning.
type LearningStyle string

// Supported learning styles.
const (
	LearningStyleVisual    LearningStyle = "visual"
	LearningStylePractical LearningStyle = "practical"
	LearningStyleTheory    LearningStyle = "theory-oriented"
)

// LearningStyles lists the accepted styles in display order.
var LearningStyles = []LearningStyle{LearningStyleVisual, LearningStylePractical, LearningStyleTheory}

// Valid reports whether s is one of the supported styles.
func (s LearningStyle) Valid() bool {
	for _, v := range LearningStyles {
		if s == v {
			return true
		}
	}
	return false
}

// AssessmentAnswers is the packaged result of the assessment wizard.
// It is treated as immutable once submitted.
type AssessmentAnswers struct {
	PersonalityTraits string        `json:"personalityTraits"`
	UserSkills        []string      `json:"userSkills"`
	LifeSkills        []string      `json:"lifeSkills"`
	Interests         []string      `json:"interests"`
	UserExperience    string        `json:"userExperience"`
	LearningStyle     LearningStyle `json:"learningStyle"`
}

// Clone returns a deep copy so callers cannot alias the slices.
func (a AssessmentAnswers) Clone() AssessmentAnswers {
	a.UserSkills = cloneStrings(a.UserSkills)
	a.LifeSkills = cloneStrings(a.LifeSkills)
	a.Interests = cloneStrings(a.Interests)
	return a
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
