package model

import "fmt"

// Timeline is the horizon a learning roadmap is planned for.
type Timeline string

// Supported timelines. The first one is the default selection.
const (
	Timeline3Months Timeline = "3 months"
	Timeline6Months Timeline = "6 months"
	Timeline1Year   Timeline = "1 year"
)

// Timelines lists the accepted timelines in display order.
var Timelines = []Timeline{Timeline3Months, Timeline6Months, Timeline1Year}

// DefaultTimeline is selected until the user picks another one.
const DefaultTimeline = Timeline3Months

// ParseTimeline validates s.
func ParseTimeline(s string) (Timeline, error) {
	for _, t := range Timelines {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown timeline %q", s)
}

// PhaseRange returns the inclusive phase count convention for the timeline.
func (t Timeline) PhaseRange() (lo, hi int) {
	switch t {
	case Timeline6Months:
		return 5, 6
	case Timeline1Year:
		return 8, 12
	default:
		return 3, 4
	}
}

// ResourceType marks a learning resource as free or paid.
type ResourceType string

// Resource types.
const (
	ResourceFree ResourceType = "free"
	ResourcePaid ResourceType = "paid"
)

// Resource is a learning resource link.
type Resource struct {
	Name string       `json:"name"`
	Type ResourceType `json:"type"`
	URL  string       `json:"url"`
}

// RoadmapStep is one milestone in a phase.
type RoadmapStep struct {
	Title     string     `json:"title"`
	Resources []Resource `json:"resources"`
}

// RoadmapPhase is an ordered block of steps.
type RoadmapPhase struct {
	Title string        `json:"title"`
	Steps []RoadmapStep `json:"steps"`
}

// GapAnalysis compares the user's skills against a career's requirements.
type GapAnalysis struct {
	ExistingSkills []string `json:"existingSkills"`
	MissingSkills  []string `json:"missingSkills"`
	Summary        string   `json:"summary"`
}

// Roadmap is the server-provided learning plan.
type Roadmap struct {
	GapAnalysis GapAnalysis    `json:"gapAnalysis"`
	Roadmap     []RoadmapPhase `json:"roadmap"`
}
