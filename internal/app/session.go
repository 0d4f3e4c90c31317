package service

import (
	"sync"
	"time"

	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/pkg/metrics"
)

// View is the page a session is on.
type View string

// Session views. A session moves start -> assessment -> loading -> dashboard;
// a failed submission returns it to assessment.
const (
	ViewStart      View = "start"
	ViewAssessment View = "assessment"
	ViewLoading    View = "loading"
	ViewDashboard  View = "dashboard"
)

// Assessment submission failure notification.
const (
	TitleRecommendationsFailed   = "Error getting recommendations"
	MessageRecommendationsFailed = "There was a problem with our AI. Please try again later."
)

// Session is one user's walk through the app.
type Session struct {
	mu            sync.Mutex
	id            string
	view          View
	wizard        *assessment.Wizard
	answers       *model.AssessmentAnswers
	dashboard     *dashboard.Controller
	notifications []dashboard.Notification
	created       time.Time
}

func newSession(now time.Time) *Session {
	return &Session{view: ViewStart, created: now}
}

// SessionView is a point-in-time copy of a session.
type SessionView struct {
	ID            string                   `json:"id"`
	View          View                     `json:"view"`
	Step          int                      `json:"step,omitempty"`
	TotalSteps    int                      `json:"totalSteps,omitempty"`
	Form          *assessment.Form         `json:"form,omitempty"`
	Answers       *model.AssessmentAnswers `json:"answers,omitempty"`
	Dashboard     *dashboard.View          `json:"dashboard,omitempty"`
	Notifications int                      `json:"pendingNotifications"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// snapshotLocked copies the session. s.mu must be held.
func (s *Session) snapshotLocked() SessionView {
	v := SessionView{
		ID:            s.id,
		View:          s.view,
		Notifications: len(s.notifications),
		CreatedAt:     s.created,
	}
	if s.wizard != nil {
		form := s.wizard.Form()
		v.Step = s.wizard.Step()
		v.TotalSteps = assessment.TotalSteps
		v.Form = &form
	}
	if s.answers != nil {
		a := s.answers.Clone()
		v.Answers = &a
	}
	if s.dashboard != nil {
		d := s.dashboard.Snapshot()
		v.Dashboard = &d
		v.Notifications += d.Notifications
	}
	return v
}

func (s *Session) notifyLocked(kind, title, message string) {
	metrics.RecordNotification(kind)
	s.notifications = append(s.notifications, dashboard.Notification{
		Kind:    kind,
		Title:   title,
		Message: message,
		At:      time.Now(),
	})
}
