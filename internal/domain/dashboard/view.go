package dashboard

import (
	"time"

	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
)

// Notification titles shown for failed background calls.
const (
	TitleMentorsFailed    = "Error suggesting mentors"
	TitleRoadmapFailed    = "Error generating roadmap"
	TitleExplainFailed    = "Error explaining career"
	TitleSimulationFailed = "Error simulating impact"
	TitleBusy             = "Service busy"
)

// Notification is a non-blocking, toast-like message for the user.
type Notification struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// RoadmapView is the roadmap region with everything derived from it.
type RoadmapView struct {
	Loading         bool             `json:"loading"`
	Roadmap         *roadmap.Roadmap `json:"roadmap,omitempty"`
	Progress        roadmap.Progress `json:"progress"`
	CompletedPhases []int            `json:"completedPhases"`
	Badges          []roadmap.Badge  `json:"badges"`
}

// MentorsView is the mentor region.
type MentorsView struct {
	Loading bool           `json:"loading"`
	Mentors []model.Mentor `json:"mentors"`
}

// ExplanationView is the explanation surface.
type ExplanationView struct {
	Open        bool                     `json:"open"`
	Loading     bool                     `json:"loading"`
	Career      string                   `json:"career,omitempty"`
	Explanation *model.CareerExplanation `json:"explanation,omitempty"`
}

// View is an immutable snapshot of a dashboard.
type View struct {
	Recommendations model.CareerRecs        `json:"recommendations"`
	SelectedCluster string                  `json:"selectedCluster,omitempty"`
	Timeline        model.Timeline          `json:"timeline"`
	Generation      uint64                  `json:"generation"`
	Roadmap         RoadmapView             `json:"roadmap"`
	Mentors         MentorsView             `json:"mentors"`
	Explanation     ExplanationView         `json:"explanation"`
	Simulation      *model.ImpactSimulation `json:"simulation,omitempty"`
	Notifications   int                     `json:"pendingNotifications"`
}
