// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
)

// SessionView mirrors the session snapshot returned by every session call.
type SessionView = service.SessionView

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	CreateSession(ctx context.Context) (SessionView, error)
	GetSession(ctx context.Context, id string) (SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	Restart(ctx context.Context, id string) (SessionView, error)

	// Assessment wizard.
	StartAssessment(ctx context.Context, id string) (SessionView, error)
	NextStep(ctx context.Context, id string, form assessment.Form) (SessionView, error)
	SubmitAssessment(ctx context.Context, id string, form assessment.Form) (SessionView, error)

	// Dashboard.
	SelectCluster(ctx context.Context, id, cluster string) (dashboard.View, error)
	SelectTimeline(ctx context.Context, id, timeline string) (dashboard.View, error)
	ToggleStep(ctx context.Context, id string, phase, step int) (roadmap.Progress, error)
	ExplainCareer(ctx context.Context, id, career string) (dashboard.View, error)
	DismissExplanation(ctx context.Context, id string) (dashboard.View, error)
	SimulateImpact(ctx context.Context, id, newSkill, timeline string) (model.ImpactSimulation, error)
	DrainNotifications(ctx context.Context, id string) ([]dashboard.Notification, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	sessionsHandler   *SessionsHandler
	assessmentHandler *AssessmentHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		sessionsHandler:   NewSessionsHandler(deps),
		assessmentHandler: NewAssessmentHandler(),
		dashboardHandler:  newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /assessment/questions", MetricsMiddleware(s.assessmentHandler.HandleQuestions, "questions"))

	h := s.sessionsHandler
	routes := []struct {
		pattern  string
		endpoint string
		handler  http.HandlerFunc
	}{
		{"POST /sessions", "sessions", h.HandleCreate},
		{"GET /sessions/{id}", "session", h.HandleGet},
		{"DELETE /sessions/{id}", "session", h.HandleDelete},
		{"POST /sessions/{id}/restart", "restart", h.HandleRestart},
		{"POST /sessions/{id}/assessment/start", "assessment_start", h.HandleStartAssessment},
		{"POST /sessions/{id}/assessment/next", "assessment_next", h.HandleNextStep},
		{"POST /sessions/{id}/assessment/submit", "assessment_submit", h.HandleSubmit},
		{"PUT /sessions/{id}/cluster", "cluster", h.HandleSelectCluster},
		{"PUT /sessions/{id}/timeline", "timeline", h.HandleSelectTimeline},
		{"POST /sessions/{id}/roadmap/phases/{phase}/steps/{step}/toggle", "toggle_step", h.HandleToggleStep},
		{"POST /sessions/{id}/explanation", "explanation", h.HandleExplain},
		{"DELETE /sessions/{id}/explanation", "explanation", h.HandleDismissExplanation},
		{"POST /sessions/{id}/simulation", "simulation", h.HandleSimulate},
		{"GET /sessions/{id}/notifications", "notifications", h.HandleNotifications},
	}
	for _, r := range routes {
		mux.HandleFunc(r.pattern, MetricsMiddleware(r.handler, r.endpoint))
	}
}

type errorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []assessment.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
