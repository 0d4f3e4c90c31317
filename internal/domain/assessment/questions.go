package assessment

// Option is one answer to a personality question and the trait it implies.
type Option struct {
	Value string `json:"value"`
	Trait string `json:"trait"`
}

// Question is a multiple-choice personality question.
type Question struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// Tag is a selectable interest or life skill.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Questions is the fixed personality questionnaire, in display order.
// Option values and traits are consumed verbatim by the recommender prompts.
var Questions = []Question{
	{
		Name:  "groupProject",
		Label: "When faced with a group project, you prefer to...",
		Options: []Option{
			{Value: "Lead and organize", Trait: "conscientious and detail-oriented"},
			{Value: "Brainstorm ideas", Trait: "creative and open to new ideas"},
			{Value: "Work on tasks quietly", Trait: "introverted and focused"},
			{Value: "Maintain harmony", Trait: "empathetic and collaborative"},
		},
	},
	{
		Name:  "energizedBy",
		Label: "You are more energized by...",
		Options: []Option{
			{Value: "Large groups", Trait: "extroverted and sociable"},
			{Value: "Small, deep conversations", Trait: "introverted and thoughtful"},
			{Value: "Working alone", Trait: "independent and self-sufficient"},
			{Value: "A mix of both", Trait: "adaptable"},
		},
	},
	{
		Name:  "decisionMaking",
		Label: "When making decisions, you rely more on...",
		Options: []Option{
			{Value: "Logic and data", Trait: "analytical and logical"},
			{Value: "Gut feeling and people", Trait: "intuitive and empathetic"},
			{Value: "Past experiences", Trait: "practical and cautious"},
			{Value: "New possibilities", Trait: "open-minded and forward-thinking"},
		},
	},
}

// Interests are the selectable interest and value tags.
var Interests = []Tag{
	{ID: "social-impact", Label: "Social Impact"},
	{ID: "entrepreneurship", Label: "Entrepreneurship"},
	{ID: "research", Label: "Research"},
	{ID: "corporate", Label: "Corporate"},
}

// LifeSkills are the selectable soft-skill tags.
var LifeSkills = []Tag{
	{ID: "communication", Label: "Communication"},
	{ID: "teamwork", Label: "Teamwork"},
	{ID: "adaptability", Label: "Adaptability"},
	{ID: "problem-solving", Label: "Problem Solving"},
	{ID: "leadership", Label: "Leadership"},
	{ID: "time-management", Label: "Time Management"},
}

// Trait looks up the trait for an answer. Unknown answers yield "".
func Trait(question, value string) (string, bool) {
	for _, q := range Questions {
		if q.Name != question {
			continue
		}
		for _, o := range q.Options {
			if o.Value == value {
				return o.Trait, true
			}
		}
		return "", false
	}
	return "", false
}

func knownTag(tags []Tag, id string) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
