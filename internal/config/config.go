// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the background task queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of background workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxSessions caps live sessions; the least recently used is evicted.
	MaxSessions int `koanf:"max_sessions"`

	// SessionTTLMS expires idle sessions. 0 disables expiry.
	SessionTTLMS int `koanf:"session_ttl_ms"`

	// GeminiAPIKey enables the Gemini recommender. Empty selects the offline one.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel names the generative model.
	GeminiModel string `koanf:"gemini_model"`

	// Temperature is the sampling temperature sent with every request.
	Temperature float64 `koanf:"temperature"`

	// RequestTimeoutMS bounds each recommendation call. 0 means no bound.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// OfflineLatencyMinMS and OfflineLatencyMaxMS simulate remote latency
	// for the offline recommender.
	OfflineLatencyMinMS int `koanf:"offline_latency_min_ms"`
	OfflineLatencyMaxMS int `koanf:"offline_latency_max_ms"`

	// OTelEndpoint is the OTLP/HTTP collector for traces. Empty disables export.
	OTelEndpoint string `koanf:"otel_endpoint"`

	// OTelInsecure disables TLS towards the collector.
	OTelInsecure bool `koanf:"otel_insecure"`

	// OTelSampleRate is the ratio of sampled traces, within [0, 1].
	OTelSampleRate float64 `koanf:"otel_sample_rate"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           1024,
		WorkerCount:         runtime.NumCPU() * 2,
		MaxSessions:         10_000,
		SessionTTLMS:        int((2 * time.Hour).Milliseconds()),
		GeminiModel:         "gemini-2.5-flash",
		Temperature:         0.7,
		RequestTimeoutMS:    0,
		OfflineLatencyMinMS: 300,
		OfflineLatencyMaxMS: 900,
		OTelSampleRate:      1,
	}
}

// SessionTTL returns the idle session lifetime.
func (c *Config) SessionTTL() time.Duration { return ms(c.SessionTTLMS) }

// RequestTimeout returns the per-call recommendation bound.
func (c *Config) RequestTimeout() time.Duration { return ms(c.RequestTimeoutMS) }

// OfflineLatency returns the simulated latency range.
func (c *Config) OfflineLatency() (minLatency, maxLatency time.Duration) {
	return ms(c.OfflineLatencyMinMS), ms(c.OfflineLatencyMaxMS)
}

// minWorkerCount keeps a roadmap fetch and its mentor fetch running side by side.
const minWorkerCount = 2

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.WorkerCount < minWorkerCount:
		return fmt.Errorf("%w: worker_count must be at least %d, got %d", ErrInvalidConfig, minWorkerCount, c.WorkerCount)
	case c.Temperature < 0 || c.Temperature > 2:
		return fmt.Errorf("%w: temperature must be within [0, 2], got %v", ErrInvalidConfig, c.Temperature)
	case c.SessionTTLMS < 0 || c.RequestTimeoutMS < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	case c.OfflineLatencyMinMS < 0 || c.OfflineLatencyMaxMS < c.OfflineLatencyMinMS:
		return fmt.Errorf("%w: offline latency range [%d, %d] is invalid",
			ErrInvalidConfig, c.OfflineLatencyMinMS, c.OfflineLatencyMaxMS)
	case c.OTelSampleRate < 0 || c.OTelSampleRate > 1:
		return fmt.Errorf("%w: otel_sample_rate must be within [0, 1], got %v", ErrInvalidConfig, c.OTelSampleRate)
	}
	return nil
}
