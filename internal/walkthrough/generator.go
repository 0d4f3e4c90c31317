package walkthrough

import (
	"math/rand/v2"
	"strings"

	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/model"
)

// Constants for answer generation.
const (
	maxTags       = 3
	maxTechSkills = 4
	skipChance    = 0.15
)

// techSkills is the pool free-text skills are drawn from.
var techSkills = []string{
	"HTML", "CSS", "JavaScript", "Python", "SQL", "Excel", "Figma",
	"Go", "Java", "Photoshop", "Git", "Docker", "Statistics",
}

// newSkills is the pool for what-if simulations.
var newSkills = []string{"Rust", "Kubernetes", "Machine Learning", "Public Speaking", "UX Research", "Cloud Security"}

var experiences = []string{
	"Built a personal website and a few small tools for friends.",
	"Two years of retail management, handling schedules and inventory.",
	"Volunteered as a tutor and organized community events.",
	"Completed an online data analysis course with a capstone project.",
}

// Generator produces plausible wizard answers. It is not safe for
// concurrent use; give each worker its own.
type Generator struct {
	q   Questionnaire
	rng *rand.Rand
}

// NewGenerator creates a generator over the questionnaire. The same seed
// and session index always yield the same answers.
func NewGenerator(q Questionnaire, seed uint64, index int) *Generator {
	return &Generator{q: q, rng: rand.New(rand.NewPCG(seed, uint64(index)))}
}

// Answers generates one form per wizard step. Any field may be left empty
// since the wizard treats every field as optional.
func (g *Generator) Answers() Answers {
	steps := make([]assessment.Form, assessment.TotalSteps)

	personality := make(map[string]string, len(g.q.Questions))
	for _, question := range g.q.Questions {
		if g.skip() || len(question.Options) == 0 {
			continue
		}
		personality[question.Name] = question.Options[g.rng.IntN(len(question.Options))].Value
	}
	steps[assessment.StepAboutYou-1] = assessment.Form{Personality: personality}

	steps[assessment.StepSkillsAndInterests-1] = assessment.Form{
		TechSkills: g.techSkills(),
		Interests:  g.tags(g.q.Interests),
	}

	exp := assessment.Form{}
	if !g.skip() {
		exp.Experience = experiences[g.rng.IntN(len(experiences))]
	}
	if !g.skip() && len(g.q.LearningStyles) > 0 {
		exp.LearningStyle = string(g.q.LearningStyles[g.rng.IntN(len(g.q.LearningStyles))])
	}
	steps[assessment.StepExperience-1] = exp

	steps[assessment.StepLifeSkills-1] = assessment.Form{LifeSkills: g.tags(g.q.LifeSkills)}

	return Answers{Steps: steps, NewSkill: newSkills[g.rng.IntN(len(newSkills))]}
}

// Timeline picks a timeline other than the default one.
func (g *Generator) Timeline() string {
	var others []string
	for _, t := range g.q.Timelines {
		if t != model.DefaultTimeline {
			others = append(others, string(t))
		}
	}
	if len(others) == 0 {
		return string(model.DefaultTimeline)
	}
	return others[g.rng.IntN(len(others))]
}

func (g *Generator) skip() bool {
	return g.rng.Float64() < skipChance
}

func (g *Generator) techSkills() string {
	if g.skip() {
		return ""
	}
	n := 1 + g.rng.IntN(maxTechSkills)
	picked := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(techSkills))[:n] {
		picked = append(picked, techSkills[i])
	}
	return strings.Join(picked, ", ")
}

func (g *Generator) tags(pool []assessment.Tag) []string {
	if len(pool) == 0 || g.skip() {
		return nil
	}
	n := 1 + g.rng.IntN(min(maxTags, len(pool)))
	ids := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(pool))[:n] {
		ids = append(ids, pool[i].ID)
	}
	return ids
}
