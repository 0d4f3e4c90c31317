package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/careermap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.GeminiAPIKey, convey.ShouldBeBlank)
			convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.5-flash")
			convey.So(cfg.Temperature, convey.ShouldEqual, 0.7)
			convey.So(cfg.RequestTimeout(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.SessionTTL(), convey.ShouldEqual, 2*time.Hour)

			lo, hi := cfg.OfflineLatency()
			convey.So(lo, convey.ShouldEqual, 300*time.Millisecond)
			convey.So(hi, convey.ShouldEqual, 900*time.Millisecond)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs with invalid settings", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"temperature", func(c *config.Config) { c.Temperature = 2.5 }},
			{"latency range", func(c *config.Config) { c.OfflineLatencyMinMS, c.OfflineLatencyMaxMS = 500, 100 }},
			{"request timeout", func(c *config.Config) { c.RequestTimeoutMS = -1 }},
			{"sample rate", func(c *config.Config) { c.OTelSampleRate = 1.5 }},
			{"single worker", func(c *config.Config) { c.WorkerCount = 1 }},
			{"negative worker count", func(c *config.Config) { c.WorkerCount = -4 }},
		}
		for _, tc := range cases {
			cfg := config.New(context.Background())
			tc.mutate(cfg)
			convey.Convey("Then the "+tc.name+" is rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
