package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/careermap/internal/adapters/http/api"
	"github.com/okian/careermap/internal/adapters/mq/queue"
	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/adapters/repository"
	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
	"github.com/okian/careermap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// mockDependencies returns err for every call when set and records the
// last arguments it saw.
type mockDependencies struct {
	err      error
	lastForm assessment.Form
	lastArgs []any
}

func (m *mockDependencies) view(id string) (api.SessionView, error) {
	if m.err != nil {
		return api.SessionView{}, m.err
	}
	return api.SessionView{ID: id, View: service.ViewStart}, nil
}

func (m *mockDependencies) CreateSession(context.Context) (api.SessionView, error) {
	return m.view("s-1")
}

func (m *mockDependencies) GetSession(_ context.Context, id string) (api.SessionView, error) {
	return m.view(id)
}

func (m *mockDependencies) DeleteSession(context.Context, string) error { return m.err }

func (m *mockDependencies) Restart(_ context.Context, id string) (api.SessionView, error) {
	return m.view(id)
}

func (m *mockDependencies) StartAssessment(_ context.Context, id string) (api.SessionView, error) {
	return m.view(id)
}

func (m *mockDependencies) NextStep(_ context.Context, id string, form assessment.Form) (api.SessionView, error) {
	m.lastForm = form
	return m.view(id)
}

func (m *mockDependencies) SubmitAssessment(_ context.Context, id string, form assessment.Form) (api.SessionView, error) {
	m.lastForm = form
	return m.view(id)
}

func (m *mockDependencies) SelectCluster(_ context.Context, _, cluster string) (dashboard.View, error) {
	m.lastArgs = []any{cluster}
	return dashboard.View{SelectedCluster: cluster}, m.err
}

func (m *mockDependencies) SelectTimeline(_ context.Context, _, timeline string) (dashboard.View, error) {
	m.lastArgs = []any{timeline}
	return dashboard.View{Timeline: model.Timeline(timeline)}, m.err
}

func (m *mockDependencies) ToggleStep(_ context.Context, _ string, phase, step int) (roadmap.Progress, error) {
	m.lastArgs = []any{phase, step}
	return roadmap.Progress{CompletedSteps: 1, TotalSteps: 4, Percentage: 25}, m.err
}

func (m *mockDependencies) ExplainCareer(_ context.Context, _, career string) (dashboard.View, error) {
	m.lastArgs = []any{career}
	return dashboard.View{Explanation: dashboard.ExplanationView{Open: true, Loading: true, Career: career}}, m.err
}

func (m *mockDependencies) DismissExplanation(context.Context, string) (dashboard.View, error) {
	return dashboard.View{}, m.err
}

func (m *mockDependencies) SimulateImpact(_ context.Context, _, newSkill, timeline string) (model.ImpactSimulation, error) {
	m.lastArgs = []any{newSkill, timeline}
	return model.ImpactSimulation{Summary: "ok"}, m.err
}

func (m *mockDependencies) DrainNotifications(context.Context, string) ([]dashboard.Notification, error) {
	return []dashboard.Notification{{Kind: "error", Title: dashboard.TitleRoadmapFailed}}, m.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Health, stats and dashboard pages are served", func() {
			So(do(mux, "GET", "/healthz", "").Code, ShouldEqual, http.StatusOK)

			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)

			w = do(mux, "GET", "/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
		})

		Convey("The questionnaire lists every table", func() {
			w := do(mux, "GET", "/assessment/questions", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var q struct {
				TotalSteps int                   `json:"totalSteps"`
				Questions  []assessment.Question `json:"questions"`
				Timelines  []string              `json:"timelines"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &q), ShouldBeNil)
			So(q.TotalSteps, ShouldEqual, 4)
			So(q.Questions, ShouldHaveLength, 3)
			So(q.Timelines, ShouldResemble, []string{"3 months", "6 months", "1 year"})
		})

		Convey("Creating a session returns 201 and its location", func() {
			w := do(mux, "POST", "/sessions", "")
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(w.Header().Get("Location"), ShouldEqual, "/sessions/s-1")
		})

		Convey("Wrong methods are rejected by the router", func() {
			So(do(mux, "PATCH", "/sessions/s-1", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Deleting a session returns 204", func() {
			So(do(mux, "DELETE", "/sessions/s-1", "").Code, ShouldEqual, http.StatusNoContent)
		})

		Convey("Wizard bodies are optional and decoded", func() {
			So(do(mux, "POST", "/sessions/s-1/assessment/next", "").Code, ShouldEqual, http.StatusOK)

			w := do(mux, "POST", "/sessions/s-1/assessment/next", `{"techSkills":"Go, SQL","interests":["research"]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastForm.TechSkills, ShouldEqual, "Go, SQL")
			So(deps.lastForm.Interests, ShouldResemble, []string{"research"})
		})

		Convey("Malformed or unknown fields are bad requests", func() {
			w := do(mux, "POST", "/sessions/s-1/assessment/submit", `{"techSkills":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")

			w = do(mux, "PUT", "/sessions/s-1/cluster", `{"name":"Data & AI"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Dashboard actions pass their arguments through", func() {
			w := do(mux, "PUT", "/sessions/s-1/cluster", `{"cluster":"Data & AI"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastArgs, ShouldResemble, []any{"Data & AI"})

			w = do(mux, "PUT", "/sessions/s-1/timeline", `{"timeline":"1 year"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastArgs, ShouldResemble, []any{"1 year"})

			w = do(mux, "POST", "/sessions/s-1/roadmap/phases/2/steps/1/toggle", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastArgs, ShouldResemble, []any{2, 1})
			So(w.Body.String(), ShouldContainSubstring, `"percentage":25`)

			w = do(mux, "POST", "/sessions/s-1/explanation", `{"career":"Data Scientist"}`)
			So(w.Code, ShouldEqual, http.StatusAccepted)

			So(do(mux, "DELETE", "/sessions/s-1/explanation", "").Code, ShouldEqual, http.StatusOK)

			w = do(mux, "POST", "/sessions/s-1/simulation", `{"newSkill":"Rust"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastArgs, ShouldResemble, []any{"Rust", ""})

			w = do(mux, "GET", "/sessions/s-1/notifications", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, dashboard.TitleRoadmapFailed)
		})

		Convey("Non-numeric step indices are bad requests", func() {
			w := do(mux, "POST", "/sessions/s-1/roadmap/phases/x/steps/1/toggle", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("session %q: %w", "x", repository.ErrNotFound), http.StatusNotFound, "session_not_found"},
		{&assessment.ValidationError{Fields: []assessment.FieldError{{Field: "interests", Message: "unknown"}}}, http.StatusUnprocessableEntity, "validation_failed"},
		{service.ErrWrongView, http.StatusConflict, "conflict"},
		{assessment.ErrWrongStep, http.StatusConflict, "conflict"},
		{dashboard.ErrNoRoadmap, http.StatusConflict, "conflict"},
		{dashboard.ErrUnknownCluster, http.StatusBadRequest, "bad_request"},
		{dashboard.ErrInvalidTimeline, http.StatusBadRequest, "bad_request"},
		{queue.ErrFull, http.StatusTooManyRequests, "backpressure"},
		{recommender.Fail(recommender.OpGenerateRoadmap, errors.New("quota")), http.StatusBadGateway, "recommender_failed"},
		{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
		{errors.New("mystery"), http.StatusInternalServerError, "internal_error"},
	}

	Convey("Given dependencies that fail", t, func() {
		for _, tc := range cases {
			deps := &mockDependencies{err: tc.err}
			mux := newMux(deps)

			w := do(mux, "GET", "/sessions/s-1", "")
			So(w.Code, ShouldEqual, tc.status)
			So(errorCode(w), ShouldEqual, tc.code)
		}
	})

	Convey("Validation failures list the offending fields", t, func() {
		deps := &mockDependencies{err: &assessment.ValidationError{Fields: []assessment.FieldError{{Field: "lifeSkills", Message: "unknown life skill"}}}}
		w := do(newMux(deps), "POST", "/sessions/s-1/assessment/submit", `{}`)
		So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		So(w.Body.String(), ShouldContainSubstring, `"field":"lifeSkills"`)
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the op-tagged error helpers", t, func() {
		cause := errors.New("eof")

		Convey("NewKind keeps the kind matchable", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
		})

		Convey("WrapKind keeps both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(api.WrapKind("api.op", api.ErrBadRequest, nil), api.ErrBadRequest), ShouldBeTrue)
		})

		Convey("Wrap leaves nil alone", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
		})
	})
}
