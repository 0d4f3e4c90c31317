package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/careermap/internal/adapters/mq/queue"
	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/adapters/repository"
	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

type clusterRequest struct {
	Cluster string `json:"cluster"`
}

type timelineRequest struct {
	Timeline string `json:"timeline"`
}

type explainRequest struct {
	Career string `json:"career"`
}

type simulationRequest struct {
	NewSkill string `json:"newSkill"`
	Timeline string `json:"timeline,omitempty"`
}

// SessionsHandler serves the session resources.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	v, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+v.ID)
	writeJSON(w, http.StatusCreated, v)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	v, err := h.deps.GetSession(r.Context(), r.PathValue("id"))
	respond(w, op, v, err)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRestart handles POST /sessions/{id}/restart.
func (h *SessionsHandler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	const op = "api.restart"
	v, err := h.deps.Restart(r.Context(), r.PathValue("id"))
	respond(w, op, v, err)
}

// HandleStartAssessment handles POST /sessions/{id}/assessment/start.
func (h *SessionsHandler) HandleStartAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_assessment"
	v, err := h.deps.StartAssessment(r.Context(), r.PathValue("id"))
	respond(w, op, v, err)
}

// HandleNextStep handles POST /sessions/{id}/assessment/next.
func (h *SessionsHandler) HandleNextStep(w http.ResponseWriter, r *http.Request) {
	const op = "api.next_step"
	var form assessment.Form
	if err := decode(r, &form, true); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.NextStep(r.Context(), r.PathValue("id"), form)
	respond(w, op, v, err)
}

// HandleSubmit handles POST /sessions/{id}/assessment/submit. It blocks
// until recommendations arrive.
func (h *SessionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_assessment"
	var form assessment.Form
	if err := decode(r, &form, true); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.SubmitAssessment(r.Context(), r.PathValue("id"), form)
	respond(w, op, v, err)
}

// HandleSelectCluster handles PUT /sessions/{id}/cluster.
func (h *SessionsHandler) HandleSelectCluster(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_cluster"
	var req clusterRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.SelectCluster(r.Context(), r.PathValue("id"), req.Cluster)
	respond(w, op, v, err)
}

// HandleSelectTimeline handles PUT /sessions/{id}/timeline.
func (h *SessionsHandler) HandleSelectTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_timeline"
	var req timelineRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.SelectTimeline(r.Context(), r.PathValue("id"), req.Timeline)
	respond(w, op, v, err)
}

// HandleToggleStep handles POST /sessions/{id}/roadmap/phases/{phase}/steps/{step}/toggle.
func (h *SessionsHandler) HandleToggleStep(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_step"
	phase, err := strconv.Atoi(r.PathValue("phase"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("phase: %w", err)))
		return
	}
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("step: %w", err)))
		return
	}
	p, err := h.deps.ToggleStep(r.Context(), r.PathValue("id"), phase, step)
	respond(w, op, p, err)
}

// HandleExplain handles POST /sessions/{id}/explanation.
func (h *SessionsHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	const op = "api.explain_career"
	var req explainRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.ExplainCareer(r.Context(), r.PathValue("id"), req.Career)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, v)
}

// HandleDismissExplanation handles DELETE /sessions/{id}/explanation.
func (h *SessionsHandler) HandleDismissExplanation(w http.ResponseWriter, r *http.Request) {
	const op = "api.dismiss_explanation"
	v, err := h.deps.DismissExplanation(r.Context(), r.PathValue("id"))
	respond(w, op, v, err)
}

// HandleSimulate handles POST /sessions/{id}/simulation.
func (h *SessionsHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate_impact"
	var req simulationRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sim, err := h.deps.SimulateImpact(r.Context(), r.PathValue("id"), req.NewSkill, req.Timeline)
	respond(w, op, sim, err)
}

// HandleNotifications handles GET /sessions/{id}/notifications. Reading
// the list clears it.
func (h *SessionsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "api.notifications"
	n, err := h.deps.DrainNotifications(r.Context(), r.PathValue("id"))
	respond(w, op, n, err)
}

// decode reads a JSON body. With optional set, an empty body decodes to
// the zero value.
func decode(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func respond(w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// writeFailure maps a service error onto a status and error code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	resp := errorResponse{Code: code, Message: Wrap(op, err).Error()}
	var verr *assessment.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, status, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, assessment.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, service.ErrWrongView),
		errors.Is(err, assessment.ErrWrongStep),
		errors.Is(err, dashboard.ErrNoRoadmap):
		return http.StatusConflict, "conflict"
	case errors.Is(err, dashboard.ErrUnknownCluster),
		errors.Is(err, dashboard.ErrInvalidTimeline),
		errors.Is(err, dashboard.ErrStepOutOfRange),
		errors.Is(err, dashboard.ErrEmptyCareer),
		errors.Is(err, dashboard.ErrEmptySkill),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, queue.ErrFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, recommender.ErrServiceCall):
		return http.StatusBadGateway, "recommender_failed"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, queue.ErrClosed),
		errors.Is(err, repository.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
