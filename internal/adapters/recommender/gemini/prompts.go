package gemini

import (
	"strings"
	"text/template"

	"github.com/okian/careermap/internal/adapters/recommender"
)

var promptFuncs = template.FuncMap{
	// bullets renders " - a - b", or None for an empty list.
	"bullets": func(items []string) string {
		if len(items) == 0 {
			return "None"
		}
		var b strings.Builder
		for _, it := range items {
			b.WriteString(" - ")
			b.WriteString(it)
		}
		return b.String()
	},
	"join": func(items []string) string { return strings.Join(items, ",") },
}

const clustersPrompt = `You are a career counselor who specializes in creating a 360° profile for students and recommending career pathways.

Instead of just job titles, you will recommend broader "Career Clusters" like "Data & AI", "Green Tech", "Healthcare", "Creative Industries", etc.
For each cluster, you must also provide 2-3 specific "Job Roles" that fall under it, along with a "matchPercentage" for each role.
For each cluster, you must provide a "successPotential" score from 0-100. This score should represent the alignment between the user's profile (skills, personality, interests) and the typical requirements and environment of that career cluster. A high score indicates a strong match.
Generate a full 360° profile including a Skill Graph, a Personality Map, and an Interest Cloud.

- Personality Traits: {{.PersonalityTraits}}
- User's Technical Skills: {{bullets .UserSkills}}
- User's Life Skills: {{bullets .LifeSkills}}
- User's Interests and Values: {{bullets .Interests}}

Recommend at least 3 career clusters. For each cluster, suggest 2-3 specific job roles with their match percentages. For the skill graph, estimate the user's proficiency level (0-100) based on the skills provided. The personality map should be a descriptive summary. The interest cloud should be a list of keywords.`

const roadmapPrompt = `You are an expert career counselor specializing in creating personalized learning roadmaps and skill gap analysis.

First, perform a skill gap analysis. Identify the core skills needed for the specified career path. Compare these with the user's current skills. List the relevant skills the user already has and the key skills they are missing. Provide a short summary of this analysis.

Then, based on the user's chosen career path, current skills, prior experience, learning style, and desired timeline, generate a structured, phased learning roadmap.
Each phase should represent a logical block of learning (e.g., "Phase 1: Foundations", "Phase 2: Core Skills", "Phase 3: Advanced Topics & Specialization").
Each phase must contain several clear, actionable steps (milestones).
Each step should include at least one free and one paid resource recommendation (e.g., NPTEL for free; Coursera, Udemy, LinkedIn Learning for paid).
The resource recommendations should be tailored to the user's learning style.

The roadmap should be realistically achievable within the given timeline.
- For a 3-month timeline, create 3-4 phases.
- For a 6-month timeline, create 5-6 phases.
- For a 1-year timeline, create 8-12 phases.

Career Path: {{.CareerPath}}
User Skills: {{join .UserSkills}}
User Experience: {{.UserExperience}}
Learning Style: {{.LearningStyle}}
Timeline: {{.Timeline}}

Generate a structured gap analysis and roadmap. Ensure all provided resource URLs are valid and working. For YouTube, prefer linking to established channels, popular tutorials, or full courses rather than single, obscure videos. Double-check that the links are not broken or private.`

const mentorsPrompt = `You are a career matchmaking expert. Based on the user's chosen career path and skills, suggest 3-4 potential mentors.

For each mentor, create a realistic but fictional profile, including their name, title, company, areas of expertise, and a personalized reason why they would be a great mentor for the user.
The suggested mentors should be highly relevant to the user's career path and skills.

Career Path: {{.CareerPath}}
User Skills: {{bullets .UserSkills}}

Generate a list of suggested mentors.`

const explainPrompt = `You are an expert career counselor and AI Mentor. A user wants to understand a specific career path better.

Provide a detailed and easy-to-understand explanation for the following career: {{.Career}}

Your explanation should include:
1.  A one-paragraph summary of what the role entails.
2.  A "Day in the Life" description, outlining typical daily tasks and responsibilities.
3.  A list of 3-5 core skills that are essential for success in this role.
4.  A brief "Future Outlook" section discussing the career's growth potential and trends.

Generate a structured explanation.`

const impactPrompt = `You are a forward-thinking career analyst. A user wants to know the impact of learning a new skill.

Analyze how adding the "new skill" to their "current skills" within the specified "timeline" could transform their career prospects.

Provide:
1.  A concise summary of the potential impact.
2.  A list of 2-3 specific, emerging job roles that would become accessible. For each role, explain why it's a good fit given the combined skillset.

Current Skills: {{bullets .CurrentSkills}}
New Skill: {{.NewSkill}}
Timeline: {{.Timeline}}

Generate a structured analysis.`

var prompts = map[string]*template.Template{
	recommender.OpRecommendClusters: mustPrompt(recommender.OpRecommendClusters, clustersPrompt),
	recommender.OpGenerateRoadmap:   mustPrompt(recommender.OpGenerateRoadmap, roadmapPrompt),
	recommender.OpSuggestMentors:    mustPrompt(recommender.OpSuggestMentors, mentorsPrompt),
	recommender.OpExplainCareer:     mustPrompt(recommender.OpExplainCareer, explainPrompt),
	recommender.OpSimulateImpact:    mustPrompt(recommender.OpSimulateImpact, impactPrompt),
}

func mustPrompt(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(promptFuncs).Parse(text))
}

// renderPrompt fills the template registered for op with data.
func renderPrompt(op string, data any) (string, error) {
	var b strings.Builder
	if err := prompts[op].Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
