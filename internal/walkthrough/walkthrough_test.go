package walkthrough

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/careermap/internal/adapters/http/api"
	"github.com/okian/careermap/internal/adapters/recommender/offline"
	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
	"github.com/okian/careermap/pkg/logger"
)

func testQuestionnaire() Questionnaire {
	return Questionnaire{
		TotalSteps:     assessment.TotalSteps,
		Questions:      assessment.Questions,
		Interests:      assessment.Interests,
		LifeSkills:     assessment.LifeSkills,
		LearningStyles: model.LearningStyles,
		Timelines:      model.Timelines,
	}
}

func TestGenerator(t *testing.T) {
	Convey("Given a generator over the real questionnaire", t, func() {
		q := testQuestionnaire()

		Convey("The same seed and index give the same answers", func() {
			a := NewGenerator(q, 42, 3).Answers()
			b := NewGenerator(q, 42, 3).Answers()
			So(a, ShouldResemble, b)
		})

		Convey("Every generated form passes validation", func() {
			for i := range 50 {
				answers := NewGenerator(q, 7, i).Answers()
				So(answers.Steps, ShouldHaveLength, assessment.TotalSteps)
				So(answers.NewSkill, ShouldNotBeBlank)

				w := assessment.NewWizard()
				last := len(answers.Steps) - 1
				for _, f := range answers.Steps[:last] {
					So(w.Next(f), ShouldBeNil)
				}
				_, err := w.Submit(answers.Steps[last])
				So(err, ShouldBeNil)
			}
		})

		Convey("The picked timeline is never the default", func() {
			g := NewGenerator(q, 1, 0)
			for range 20 {
				tl := g.Timeline()
				So(tl, ShouldNotEqual, string(model.DefaultTimeline))
				_, err := model.ParseTimeline(tl)
				So(err, ShouldBeNil)
			}
		})
	})
}

func consistentView() service.SessionView {
	r := roadmap.Initialize(model.Roadmap{
		Roadmap: []model.RoadmapPhase{
			{Title: "Basics", Steps: []model.RoadmapStep{{Title: "a"}, {Title: "b"}}},
			{Title: "Projects", Steps: []model.RoadmapStep{{Title: "c"}}},
			{Title: "Portfolio", Steps: []model.RoadmapStep{{Title: "d"}}},
		},
	})
	r = roadmap.ToggleStep(r, 1, 0)
	return service.SessionView{
		ID:   "s1",
		View: service.ViewDashboard,
		Dashboard: &dashboard.View{
			Recommendations: model.CareerRecs{CareerClusters: []model.CareerCluster{
				{Cluster: "Web Development", JobRoles: []model.JobRole{{Title: "Frontend Developer"}}},
			}},
			SelectedCluster: "Web Development",
			Timeline:        model.Timeline3Months,
			Roadmap: dashboard.RoadmapView{
				Roadmap:         &r,
				Progress:        roadmap.ComputeProgress(r),
				CompletedPhases: roadmap.CompletedPhases(r),
				Badges:          roadmap.Badges(r),
			},
		},
	}
}

func TestVerification(t *testing.T) {
	Convey("Given a consistent dashboard", t, func() {
		v := consistentView()

		Convey("No issues are reported", func() {
			So(verifyDashboard(v), ShouldBeEmpty)
		})

		Convey("Wrong progress is reported", func() {
			v.Dashboard.Roadmap.Progress.CompletedSteps = 3
			So(verifyDashboard(v), ShouldNotBeEmpty)
		})

		Convey("Missing badges are reported", func() {
			v.Dashboard.Roadmap.Badges = nil
			So(verifyDashboard(v), ShouldNotBeEmpty)
		})

		Convey("Too many phases for the timeline are reported", func() {
			v.Dashboard.Timeline = model.Timeline1Year
			So(verifyDashboard(v), ShouldHaveLength, 1)
		})

		Convey("An unknown selected cluster is reported", func() {
			v.Dashboard.SelectedCluster = "Nursing"
			So(verifyDashboard(v), ShouldHaveLength, 1)
		})

		Convey("A failed roadmap is not an issue", func() {
			v.Dashboard.Roadmap = dashboard.RoadmapView{}
			So(verifyDashboard(v), ShouldBeEmpty)
		})

		Convey("A non-dashboard view is reported", func() {
			v.View = service.ViewAssessment
			v.Dashboard = nil
			So(verifyDashboard(v), ShouldHaveLength, 1)
		})

		Convey("The first job role of the selected cluster is found", func() {
			role, ok := firstJobRole(*v.Dashboard)
			So(ok, ShouldBeTrue)
			So(role, ShouldEqual, "Frontend Developer")
		})

		Convey("An explanation for another career is reported", func() {
			d := *v.Dashboard
			d.Explanation = dashboard.ExplanationView{
				Open:   true,
				Career: "Backend Developer",
				Explanation: &model.CareerExplanation{
					CoreSkills: []string{"a", "b", "c"},
				},
			}
			So(verifyExplanation(d, "Backend Developer"), ShouldBeEmpty)
			So(verifyExplanation(d, "Frontend Developer"), ShouldHaveLength, 1)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given a walkthrough config", t, func() {
		cfg := Config{BaseURL: "http://localhost:9080", Sessions: 1, WaitTimeout: time.Second}

		Convey("A complete config is valid", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("An unknown timeline is rejected", func() {
			cfg.Timeline = "2 weeks"
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Zero sessions are rejected", func() {
			cfg.Sessions = 0
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a running career map server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := service.New(offline.New(offline.WithLatencyRange(0, 0)), service.WithWorkerCount(4))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		out := filepath.Join(t.TempDir(), "transcripts.json")
		cfg := &Config{
			BaseURL:     srv.URL,
			Sessions:    4,
			Workers:     2,
			Timeout:     10 * time.Second,
			WaitTimeout: 10 * time.Second,
			Timeline:    string(model.Timeline6Months),
			Seed:        1,
			OutputFile:  out,
		}

		Convey("Every session completes without issues", func() {
			So(Run(ctx, cfg), ShouldBeNil)

			raw, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			var transcripts []Transcript
			So(json.Unmarshal(raw, &transcripts), ShouldBeNil)
			So(transcripts, ShouldHaveLength, 4)
			for _, tr := range transcripts {
				So(tr.Error, ShouldBeBlank)
				So(tr.Timeline, ShouldEqual, string(model.Timeline6Months))
				So(tr.Phases, ShouldBeBetweenOrEqual, 5, 6)
				So(tr.Badges, ShouldBeGreaterThanOrEqualTo, 1)
				So(tr.Explained, ShouldNotBeBlank)
				So(tr.Simulation, ShouldNotBeNil)
			}

			stats := svc.GetStats()
			So(stats["activeSessions"], ShouldEqual, 0)
		})

		Convey("An unreachable server fails the health check", func() {
			bad := *cfg
			bad.BaseURL = "http://127.0.0.1:1"
			bad.Timeout = time.Second
			So(Run(ctx, &bad), ShouldNotBeNil)
		})
	})
}
