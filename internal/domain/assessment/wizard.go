// Package assessment implements the four-step assessment wizard and the
// mapping of its answers onto the recommendation service input.
package assessment

import (
	"fmt"
	"strings"

	"github.com/okian/careermap/internal/domain/model"
)

// Wizard steps.
const (
	StepAboutYou = iota + 1
	StepSkillsAndInterests
	StepExperience
	StepLifeSkills

	TotalSteps = StepLifeSkills
)

// Defaults applied at submission when a field was left empty.
const (
	DefaultExperience    = "No prior experience provided."
	DefaultLearningStyle = model.LearningStylePractical
)

// Form holds the raw wizard inputs. Every field is optional.
type Form struct {
	// Personality maps a question name to the chosen option value.
	Personality   map[string]string `json:"personality,omitempty"`
	TechSkills    string            `json:"techSkills,omitempty"`
	Interests     []string          `json:"interests,omitempty"`
	Experience    string            `json:"experience,omitempty"`
	LearningStyle string            `json:"learningStyle,omitempty"`
	LifeSkills    []string          `json:"lifeSkills,omitempty"`
}

// Wizard is a strictly forward-moving four-step form.
type Wizard struct {
	step int
	form Form
}

// NewWizard returns a wizard positioned on the first step.
func NewWizard() *Wizard {
	return &Wizard{step: StepAboutYou, form: Form{Personality: map[string]string{}}}
}

// Step returns the current 1-based step.
func (w *Wizard) Step() int { return w.step }

// Form returns a copy of the answers collected so far.
func (w *Wizard) Form() Form {
	f := w.form
	f.Personality = make(map[string]string, len(w.form.Personality))
	for k, v := range w.form.Personality {
		f.Personality[k] = v
	}
	f.Interests = append([]string(nil), w.form.Interests...)
	f.LifeSkills = append([]string(nil), w.form.LifeSkills...)
	return f
}

// Next stores the fields owned by the current step and advances.
// There is no way back and no step after the last one.
func (w *Wizard) Next(input Form) error {
	if w.step >= TotalSteps {
		return fmt.Errorf("%w: already on step %d of %d", ErrWrongStep, w.step, TotalSteps)
	}
	w.merge(input)
	w.step++
	return nil
}

// Submit stores the last step's fields, validates the whole form and
// packages it. It may be called again after a failed downstream call.
func (w *Wizard) Submit(input Form) (model.AssessmentAnswers, error) {
	if w.step != TotalSteps {
		return model.AssessmentAnswers{}, fmt.Errorf("%w: submit on step %d of %d", ErrWrongStep, w.step, TotalSteps)
	}
	w.merge(input)
	if err := Validate(w.form); err != nil {
		return model.AssessmentAnswers{}, err
	}
	return Package(w.form), nil
}

func (w *Wizard) merge(in Form) {
	switch w.step {
	case StepAboutYou:
		for k, v := range in.Personality {
			w.form.Personality[k] = v
		}
	case StepSkillsAndInterests:
		w.form.TechSkills = in.TechSkills
		w.form.Interests = append([]string(nil), in.Interests...)
	case StepExperience:
		w.form.Experience = in.Experience
		w.form.LearningStyle = in.LearningStyle
	case StepLifeSkills:
		w.form.LifeSkills = append([]string(nil), in.LifeSkills...)
	}
}

// Validate checks every answered field against the fixed tables.
func Validate(f Form) error {
	var errs []FieldError
	for _, q := range Questions {
		v, ok := f.Personality[q.Name]
		if !ok || v == "" {
			continue
		}
		if _, known := Trait(q.Name, v); !known {
			errs = append(errs, FieldError{Field: q.Name, Message: fmt.Sprintf("unknown option %q", v)})
		}
	}
	for name := range f.Personality {
		if !isQuestion(name) {
			errs = append(errs, FieldError{Field: name, Message: "unknown question"})
		}
	}
	for _, id := range f.Interests {
		if !knownTag(Interests, id) {
			errs = append(errs, FieldError{Field: "interests", Message: fmt.Sprintf("unknown interest %q", id)})
		}
	}
	for _, id := range f.LifeSkills {
		if !knownTag(LifeSkills, id) {
			errs = append(errs, FieldError{Field: "lifeSkills", Message: fmt.Sprintf("unknown life skill %q", id)})
		}
	}
	if f.LearningStyle != "" && !model.LearningStyle(f.LearningStyle).Valid() {
		errs = append(errs, FieldError{Field: "learningStyle", Message: fmt.Sprintf("unknown learning style %q", f.LearningStyle)})
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Package maps a validated form onto the recommendation input.
func Package(f Form) model.AssessmentAnswers {
	a := model.AssessmentAnswers{
		PersonalityTraits: PersonalityTraits(f.Personality),
		UserSkills:        SplitSkills(f.TechSkills),
		LifeSkills:        append([]string{}, f.LifeSkills...),
		Interests:         append([]string{}, f.Interests...),
		UserExperience:    f.Experience,
		LearningStyle:     model.LearningStyle(f.LearningStyle),
	}
	if a.UserExperience == "" {
		a.UserExperience = DefaultExperience
	}
	if a.LearningStyle == "" {
		a.LearningStyle = DefaultLearningStyle
	}
	return a
}

// PersonalityTraits flattens the answered questions, in questionnaire
// order, into one comma-separated trait description.
func PersonalityTraits(answers map[string]string) string {
	traits := make([]string, 0, len(Questions))
	for _, q := range Questions {
		if t, ok := Trait(q.Name, answers[q.Name]); ok && t != "" {
			traits = append(traits, t)
		}
	}
	return strings.Join(traits, ", ")
}

// SplitSkills splits a comma-separated skills string and trims each entry.
// An empty string yields an empty list.
func SplitSkills(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isQuestion(name string) bool {
	for _, q := range Questions {
		if q.Name == name {
			return true
		}
	}
	return false
}
