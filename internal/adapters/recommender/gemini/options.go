package gemini

import (
	"errors"
	"net/http"

	"github.com/okian/careermap/pkg/logger"
)

// Defaults used when no option overrides them.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = float32(0.7)
)

var (
	// ErrMissingAPIKey indicates that no Gemini API key was configured.
	ErrMissingAPIKey = errors.New("gemini api key is required")
	// ErrEmptyResponse indicates that the model answered with no text.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrMalformedResponse indicates that the answer was not valid JSON.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrSchemaViolation indicates that the answer broke the response contract.
	ErrSchemaViolation = errors.New("model response violates schema")
)

type settings struct {
	model       string
	temperature float32
	baseURL     string
	httpClient  *http.Client
	logger      logger.Logger
}

// Option configures the Gemini client.
type Option func(*settings)

// WithModel selects the model name.
func WithModel(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.model = name
		}
	}
}

// WithTemperature sets the sampling temperature, clamped to [0, 2].
func WithTemperature(t float32) Option {
	return func(s *settings) {
		switch {
		case t < 0:
			s.temperature = 0
		case t > 2:
			s.temperature = 2
		default:
			s.temperature = t
		}
	}
}

// WithBaseURL points the client at another endpoint.
func WithBaseURL(url string) Option {
	return func(s *settings) { s.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}
