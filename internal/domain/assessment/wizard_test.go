package assessment_test

import (
	"errors"
	"testing"

	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPersonalityTraits(t *testing.T) {
	Convey("Given personality answers", t, func() {
		Convey("All three answered are joined in questionnaire order", func() {
			got := assessment.PersonalityTraits(map[string]string{
				"decisionMaking": "Logic and data",
				"groupProject":   "Brainstorm ideas",
				"energizedBy":    "A mix of both",
			})
			So(got, ShouldEqual, "creative and open to new ideas, adaptable, analytical and logical")
		})

		Convey("Unanswered questions are skipped without stray separators", func() {
			got := assessment.PersonalityTraits(map[string]string{
				"groupProject":   "",
				"energizedBy":    "Working alone",
				"decisionMaking": "",
			})
			So(got, ShouldEqual, "independent and self-sufficient")
		})

		Convey("No answers give an empty description", func() {
			So(assessment.PersonalityTraits(nil), ShouldEqual, "")
		})
	})
}

func TestSplitSkills(t *testing.T) {
	Convey("Skills are split on commas and trimmed", t, func() {
		So(assessment.SplitSkills("HTML, CSS ,  JavaScript"), ShouldResemble, []string{"HTML", "CSS", "JavaScript"})
		So(assessment.SplitSkills("Go"), ShouldResemble, []string{"Go"})
		So(assessment.SplitSkills(""), ShouldResemble, []string{})
	})
}

func TestWizardNavigation(t *testing.T) {
	Convey("Given a new wizard", t, func() {
		w := assessment.NewWizard()
		So(w.Step(), ShouldEqual, assessment.StepAboutYou)

		Convey("Submitting before the last step is refused", func() {
			_, err := w.Submit(assessment.Form{})
			So(errors.Is(err, assessment.ErrWrongStep), ShouldBeTrue)
		})

		Convey("Next moves forward one step at a time and stops at the last", func() {
			So(w.Next(assessment.Form{}), ShouldBeNil)
			So(w.Next(assessment.Form{}), ShouldBeNil)
			So(w.Next(assessment.Form{}), ShouldBeNil)
			So(w.Step(), ShouldEqual, assessment.TotalSteps)
			So(errors.Is(w.Next(assessment.Form{}), assessment.ErrWrongStep), ShouldBeTrue)
		})

		Convey("Each step only keeps the fields it owns", func() {
			So(w.Next(assessment.Form{
				Personality: map[string]string{"groupProject": "Lead and organize"},
				TechSkills:  "ignored on step 1",
			}), ShouldBeNil)
			So(w.Form().TechSkills, ShouldEqual, "")
			So(w.Form().Personality["groupProject"], ShouldEqual, "Lead and organize")
		})
	})
}

func TestWizardSubmit(t *testing.T) {
	Convey("Given a wizard walked to the last step", t, func() {
		w := assessment.NewWizard()
		So(w.Next(assessment.Form{Personality: map[string]string{"energizedBy": "Large groups"}}), ShouldBeNil)
		So(w.Next(assessment.Form{TechSkills: "HTML, CSS", Interests: []string{"research"}}), ShouldBeNil)

		Convey("When experience and learning style are left empty", func() {
			So(w.Next(assessment.Form{}), ShouldBeNil)
			answers, err := w.Submit(assessment.Form{LifeSkills: []string{"teamwork"}})

			Convey("Then defaults fill them in", func() {
				So(err, ShouldBeNil)
				So(answers, ShouldResemble, model.AssessmentAnswers{
					PersonalityTraits: "extroverted and sociable",
					UserSkills:        []string{"HTML", "CSS"},
					LifeSkills:        []string{"teamwork"},
					Interests:         []string{"research"},
					UserExperience:    assessment.DefaultExperience,
					LearningStyle:     model.LearningStylePractical,
				})
			})

			Convey("And submission can be repeated with the same answers", func() {
				again, err := w.Submit(assessment.Form{LifeSkills: []string{"teamwork"}})
				So(err, ShouldBeNil)
				So(again, ShouldResemble, answers)
			})
		})

		Convey("When unknown values were entered", func() {
			So(w.Next(assessment.Form{LearningStyle: "auditory"}), ShouldBeNil)
			_, err := w.Submit(assessment.Form{LifeSkills: []string{"juggling"}})

			Convey("Then every invalid field is reported", func() {
				So(errors.Is(err, assessment.ErrValidation), ShouldBeTrue)
				var verr *assessment.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				fields := []string{}
				for _, f := range verr.Fields {
					fields = append(fields, f.Field)
				}
				So(fields, ShouldContain, "learningStyle")
				So(fields, ShouldContain, "lifeSkills")
			})
		})
	})
}

func TestValidateOptions(t *testing.T) {
	Convey("Unknown personality answers and questions are rejected", t, func() {
		err := assessment.Validate(assessment.Form{Personality: map[string]string{
			"groupProject":   "Sleep",
			"favouriteColor": "blue",
		}})
		var verr *assessment.ValidationError
		So(errors.As(err, &verr), ShouldBeTrue)
		So(len(verr.Fields), ShouldEqual, 2)
	})

	Convey("Every table entry maps to a non-empty trait", t, func() {
		for _, q := range assessment.Questions {
			for _, o := range q.Options {
				trait, ok := assessment.Trait(q.Name, o.Value)
				So(ok, ShouldBeTrue)
				So(trait, ShouldNotBeBlank)
			}
		}
	})
}
