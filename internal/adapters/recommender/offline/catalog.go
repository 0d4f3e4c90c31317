package offline

import (
	"strings"

	"github.com/okian/careermap/internal/adapters/recommender"
)

type clusterEntry struct {
	name        string
	description string
	roles       []string
	coreSkills  []string
	// keywords match technical skills, interests match interest or life
	// skill ids, traits match words of the personality description.
	keywords  []string
	interests []string
	traits    []string
	outlook   string
}

const baseScore = 50

var mentorNames = []string{"Priya Raman", "Daniel Okafor", "Mei Lin"}

var (
	mentorTitles    = []string{"Principal Engineer", "Head of Product", "Senior Consultant"}
	mentorCompanies = []string{"Northwind Labs", "Brightpath", "Contoso Advisory"}
)

var catalog = []clusterEntry{
	{
		name:        "Data & AI",
		description: "Turning raw data into insight and intelligent products.",
		roles:       []string{"Data Analyst", "Machine Learning Engineer", "Data Engineer"},
		coreSkills:  []string{"Python", "SQL", "Statistics", "Machine Learning", "Data Visualization"},
		keywords:    []string{"python", "sql", "excel", "statistics", "r", "pandas", "ml", "data"},
		interests:   []string{"research", "problem-solving"},
		traits:      []string{"analytical", "logical", "independent"},
		outlook:     "Demand keeps growing as every industry automates decisions with data and AI.",
	},
	{
		name:        "Software & Web Development",
		description: "Designing, building and running the applications people use every day.",
		roles:       []string{"Frontend Developer", "Backend Engineer", "Full-Stack Developer"},
		coreSkills:  []string{"JavaScript", "HTML", "CSS", "Git", "APIs"},
		keywords:    []string{"html", "css", "javascript", "typescript", "react", "go", "java", "git"},
		interests:   []string{"entrepreneurship", "corporate", "problem-solving"},
		traits:      []string{"creative", "logical", "adaptable"},
		outlook:     "Software roles stay in high demand, with growth in cloud and AI-assisted development.",
	},
	{
		name:        "Green Tech",
		description: "Building the technology behind clean energy and sustainable living.",
		roles:       []string{"Sustainability Analyst", "Energy Systems Engineer", "ESG Consultant"},
		coreSkills:  []string{"Data Analysis", "Energy Systems", "Sustainability Reporting", "Project Management"},
		keywords:    []string{"cad", "matlab", "energy", "gis", "excel"},
		interests:   []string{"social-impact", "research"},
		traits:      []string{"empathetic", "adaptable"},
		outlook:     "Climate commitments are creating new roles faster than graduates can fill them.",
	},
	{
		name:        "Healthcare",
		description: "Caring for people and improving how health services work.",
		roles:       []string{"Health Informatics Specialist", "Clinical Research Coordinator", "Nurse"},
		coreSkills:  []string{"Patient Care", "Medical Terminology", "Communication", "Data Privacy"},
		keywords:    []string{"biology", "chemistry", "first aid", "health"},
		interests:   []string{"social-impact", "communication", "teamwork"},
		traits:      []string{"empathetic", "sociable", "collaborative"},
		outlook:     "Ageing populations and digital health keep this field resilient and growing.",
	},
	{
		name:        "Creative Industries",
		description: "Telling stories and shaping experiences through design and media.",
		roles:       []string{"UX Designer", "Content Strategist", "Motion Designer"},
		coreSkills:  []string{"Design Thinking", "Figma", "Storytelling", "User Research"},
		keywords:    []string{"figma", "photoshop", "illustrator", "design", "video", "writing"},
		interests:   []string{"entrepreneurship", "communication", "adaptability"},
		traits:      []string{"creative", "open", "intuitive"},
		outlook:     "Digital products need strong design, and creative roles increasingly blend with tech.",
	},
	{
		name:        "Business & Management",
		description: "Leading teams and steering organisations toward their goals.",
		roles:       []string{"Product Manager", "Business Analyst", "Operations Manager"},
		coreSkills:  []string{"Communication", "Leadership", "Financial Literacy", "Stakeholder Management"},
		keywords:    []string{"excel", "powerpoint", "sales", "marketing", "finance"},
		interests:   []string{"corporate", "entrepreneurship", "leadership", "time-management"},
		traits:      []string{"conscientious", "extroverted", "forward-thinking"},
		outlook:     "Organisations keep needing people who connect strategy, people and technology.",
	},
}

// score rates how well the answers fit the cluster on a 0-100 scale.
func (e clusterEntry) score(req recommender.ClustersRequest) float64 {
	s := float64(baseScore)
	for _, skill := range req.UserSkills {
		if matchesAny(skill, e.keywords) {
			s += 10
		}
	}
	for _, id := range req.Interests {
		if contains(e.interests, id) {
			s += 8
		}
	}
	for _, id := range req.LifeSkills {
		if contains(e.interests, id) {
			s += 5
		}
	}
	traits := strings.ToLower(req.PersonalityTraits)
	for _, t := range e.traits {
		if strings.Contains(traits, t) {
			s += 6
		}
	}
	return clamp(s)
}

// lookup finds the catalog entry a free-form career or skill refers to.
// Unknown names get a generic entry named after the input.
func lookup(name string) clusterEntry {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, e := range catalog {
		if strings.ToLower(e.name) == n || contains(lower(e.roles), n) {
			return e
		}
	}
	for _, e := range catalog {
		if matchesAny(n, e.keywords) || contains(lower(e.coreSkills), n) {
			return e
		}
	}
	title := strings.TrimSpace(name)
	if title == "" {
		title = "this field"
	}
	return clusterEntry{
		name:        title,
		description: "A field that rewards steady practice and curiosity.",
		roles:       []string{title + " Specialist", title + " Consultant"},
		coreSkills:  []string{"Communication", "Problem Solving", "Domain Knowledge"},
		outlook:     "Specialists who pair domain depth with digital skills are increasingly sought after.",
	}
}

func matchesAny(s string, keywords []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	for _, k := range keywords {
		if s == k || (len(k) > 2 && strings.Contains(s, k)) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func lower(list []string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = strings.ToLower(v)
	}
	return out
}
