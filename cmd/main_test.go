package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/careermap/internal/adapters/recommender/gemini"
	"github.com/okian/careermap/internal/adapters/recommender/offline"
	app "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/config"
	"github.com/okian/careermap/pkg/logger"
)

func TestMainFunction(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CAREERMAP_ADDR", ":8080")
			_ = os.Setenv("CAREERMAP_QUEUE_SIZE", "1000")
			_ = os.Setenv("CAREERMAP_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("CAREERMAP_ADDR")
				_ = os.Unsetenv("CAREERMAP_QUEUE_SIZE")
				_ = os.Unsetenv("CAREERMAP_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When choosing a recommender", func() {
			ctx := context.Background()
			cfg := config.New(ctx)

			convey.Convey("Then no API key selects the offline recommender", func() {
				cfg.GeminiAPIKey = ""
				rec, err := newRecommender(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec, convey.ShouldHaveSameTypeAs, &offline.Recommender{})
			})

			convey.Convey("Then an API key selects Gemini", func() {
				cfg.GeminiAPIKey = "test-key"
				rec, err := newRecommender(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec, convey.ShouldHaveSameTypeAs, &gemini.Client{})
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	convey.Convey("Given a started service behind the application mux", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := app.New(offline.New(offline.WithLatencyRange(0, 0)), app.WithWorkerCount(2))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, svc))
		defer srv.Close()

		get := func(path string) int {
			resp, err := http.Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			return resp.StatusCode
		}

		convey.Convey("Then every surface is mounted", func() {
			convey.So(get("/healthz"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/assessment/questions"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/"), convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then a session can be created", func() {
			resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
			convey.So(resp.Header.Get("Location"), convey.ShouldStartWith, "/sessions/")
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When the system metrics updater is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()

			convey.Convey("Then it returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					convey.So("updater still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestMainErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("CAREERMAP_LOG_FORMAT", "xml")
			defer func() { _ = os.Unsetenv("CAREERMAP_LOG_FORMAT") }()

			convey.Convey("Then configuration loading should fail", func() {
				_, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("Then run refuses to start", func() {
				convey.So(run(context.Background()), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the service has no recommender", func() {
			svc := app.New(nil)

			convey.Convey("Then it refuses to start", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldNotBeNil)
			})
		})
	})
}
