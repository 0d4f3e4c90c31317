package walkthrough

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Code   string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d (%s): %s", e.Method, e.Path, e.Status, e.Code, e.Body)
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// Client talks to the career map HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new API client with timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// do sends body as JSON and decodes a successful response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		se := &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
		var payload struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			se.Code = payload.Code
		}
		return se
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Questionnaire fetches the assessment tables.
func (c *Client) Questionnaire(ctx context.Context) (Questionnaire, error) {
	var q Questionnaire
	err := c.do(ctx, http.MethodGet, "/assessment/questions", nil, &q)
	return q, err
}

// CreateSession opens a new session.
func (c *Client) CreateSession(ctx context.Context) (service.SessionView, error) {
	var v service.SessionView
	err := c.do(ctx, http.MethodPost, "/sessions", nil, &v)
	return v, err
}

// GetSession reads a session.
func (c *Client) GetSession(ctx context.Context, id string) (service.SessionView, error) {
	var v service.SessionView
	err := c.do(ctx, http.MethodGet, sessionPath(id), nil, &v)
	return v, err
}

// DeleteSession drops a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id), nil, nil)
}

// StartAssessment moves the session into the wizard.
func (c *Client) StartAssessment(ctx context.Context, id string) (service.SessionView, error) {
	var v service.SessionView
	err := c.do(ctx, http.MethodPost, sessionPath(id)+"/assessment/start", nil, &v)
	return v, err
}

// NextStep submits one wizard step.
func (c *Client) NextStep(ctx context.Context, id string, form assessment.Form) (service.SessionView, error) {
	var v service.SessionView
	err := c.do(ctx, http.MethodPost, sessionPath(id)+"/assessment/next", form, &v)
	return v, err
}

// Submit submits the last step and waits for recommendations.
func (c *Client) Submit(ctx context.Context, id string, form assessment.Form) (service.SessionView, error) {
	var v service.SessionView
	err := c.do(ctx, http.MethodPost, sessionPath(id)+"/assessment/submit", form, &v)
	return v, err
}

// SelectCluster switches the selected cluster.
func (c *Client) SelectCluster(ctx context.Context, id, cluster string) (dashboard.View, error) {
	var v dashboard.View
	err := c.do(ctx, http.MethodPut, sessionPath(id)+"/cluster", map[string]string{"cluster": cluster}, &v)
	return v, err
}

// SelectTimeline switches the roadmap timeline.
func (c *Client) SelectTimeline(ctx context.Context, id, timeline string) (dashboard.View, error) {
	var v dashboard.View
	err := c.do(ctx, http.MethodPut, sessionPath(id)+"/timeline", map[string]string{"timeline": timeline}, &v)
	return v, err
}

// ToggleStep flips one roadmap step.
func (c *Client) ToggleStep(ctx context.Context, id string, phase, step int) (roadmap.Progress, error) {
	var p roadmap.Progress
	path := sessionPath(id) + "/roadmap/phases/" + strconv.Itoa(phase) + "/steps/" + strconv.Itoa(step) + "/toggle"
	err := c.do(ctx, http.MethodPost, path, nil, &p)
	return p, err
}

// ExplainCareer opens the explanation for a job role.
func (c *Client) ExplainCareer(ctx context.Context, id, career string) (dashboard.View, error) {
	var v dashboard.View
	err := c.do(ctx, http.MethodPost, sessionPath(id)+"/explanation", map[string]string{"career": career}, &v)
	return v, err
}

// DismissExplanation closes the explanation.
func (c *Client) DismissExplanation(ctx context.Context, id string) (dashboard.View, error) {
	var v dashboard.View
	err := c.do(ctx, http.MethodDelete, sessionPath(id)+"/explanation", nil, &v)
	return v, err
}

// SimulateImpact runs a what-if simulation.
func (c *Client) SimulateImpact(ctx context.Context, id, newSkill, timeline string) (model.ImpactSimulation, error) {
	var sim model.ImpactSimulation
	body := map[string]string{"newSkill": newSkill}
	if timeline != "" {
		body["timeline"] = timeline
	}
	err := c.do(ctx, http.MethodPost, sessionPath(id)+"/simulation", body, &sim)
	return sim, err
}

// Notifications drains the pending notifications.
func (c *Client) Notifications(ctx context.Context, id string) ([]dashboard.Notification, error) {
	var n []dashboard.Notification
	err := c.do(ctx, http.MethodGet, sessionPath(id)+"/notifications", nil, &n)
	return n, err
}

func sessionPath(id string) string {
	return "/sessions/" + url.PathEscape(id)
}
