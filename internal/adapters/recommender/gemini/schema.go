package gemini

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"github.com/okian/careermap/internal/adapters/recommender"
)

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func strs() *genai.Schema { return arr(str()) }

func percent() *genai.Schema {
	lo, hi := 0.0, 100.0
	return &genai.Schema{Type: genai.TypeNumber, Minimum: &lo, Maximum: &hi}
}

func arr(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

// obj builds an object schema whose properties are all required.
func obj(order []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         order,
		PropertyOrdering: order,
	}
}

var clustersSchema = obj(
	[]string{"careerClusters", "skillGraph", "personalityMap", "interestCloud"},
	map[string]*genai.Schema{
		"careerClusters": arr(obj(
			[]string{"cluster", "description", "successPotential", "jobRoles"},
			map[string]*genai.Schema{
				"cluster":          str(),
				"description":      str(),
				"successPotential": percent(),
				"jobRoles": arr(obj(
					[]string{"title", "matchPercentage"},
					map[string]*genai.Schema{"title": str(), "matchPercentage": percent()},
				)),
			},
		)),
		"skillGraph": arr(obj(
			[]string{"name", "level"},
			map[string]*genai.Schema{"name": str(), "level": percent()},
		)),
		"personalityMap": str(),
		"interestCloud":  strs(),
	},
)

var roadmapSchema = obj(
	[]string{"gapAnalysis", "roadmap"},
	map[string]*genai.Schema{
		"gapAnalysis": obj(
			[]string{"existingSkills", "missingSkills", "summary"},
			map[string]*genai.Schema{"existingSkills": strs(), "missingSkills": strs(), "summary": str()},
		),
		"roadmap": arr(obj(
			[]string{"title", "steps"},
			map[string]*genai.Schema{
				"title": str(),
				"steps": arr(obj(
					[]string{"title", "resources"},
					map[string]*genai.Schema{
						"title": str(),
						"resources": arr(obj(
							[]string{"name", "type", "url"},
							map[string]*genai.Schema{
								"name": str(),
								"type": {Type: genai.TypeString, Enum: []string{"free", "paid"}},
								"url":  str(),
							},
						)),
					},
				)),
			},
		)),
	},
)

var mentorsSchema = obj(
	[]string{"mentors"},
	map[string]*genai.Schema{
		"mentors": arr(obj(
			[]string{"name", "title", "company", "expertise", "reason"},
			map[string]*genai.Schema{
				"name": str(), "title": str(), "company": str(), "expertise": strs(), "reason": str(),
			},
		)),
	},
)

var explainSchema = obj(
	[]string{"explanation"},
	map[string]*genai.Schema{
		"explanation": obj(
			[]string{"title", "summary", "dayInTheLife", "coreSkills", "futureOutlook"},
			map[string]*genai.Schema{
				"title": str(), "summary": str(), "dayInTheLife": str(), "coreSkills": strs(), "futureOutlook": str(),
			},
		),
	},
)

var impactSchema = obj(
	[]string{"summary", "emergingRoles"},
	map[string]*genai.Schema{
		"summary": str(),
		"emergingRoles": arr(obj(
			[]string{"role", "description"},
			map[string]*genai.Schema{"role": str(), "description": str()},
		)),
	},
)

var responseSchemas = map[string]*genai.Schema{
	recommender.OpRecommendClusters: clustersSchema,
	recommender.OpGenerateRoadmap:   roadmapSchema,
	recommender.OpSuggestMentors:    mentorsSchema,
	recommender.OpExplainCareer:     explainSchema,
	recommender.OpSimulateImpact:    impactSchema,
}

// jsonSchema converts a response schema into a JSON Schema document so the
// same contract can be checked locally after the model answers.
func jsonSchema(s *genai.Schema) map[string]any {
	m := map[string]any{"type": strings.ToLower(string(s.Type))}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = jsonSchema(p)
		}
		m["properties"] = props
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if s.Items != nil {
		m["items"] = jsonSchema(s.Items)
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Minimum != nil {
		m["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		m["maximum"] = *s.Maximum
	}
	return m
}

func compileValidators() (map[string]*gojsonschema.Schema, error) {
	out := make(map[string]*gojsonschema.Schema, len(responseSchemas))
	for op, s := range responseSchemas {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(jsonSchema(s)))
		if err != nil {
			return nil, err
		}
		out[op] = compiled
	}
	return out, nil
}
