// Package gemini implements the recommendation service on the Gemini API.
// Each operation renders a prompt, asks for JSON constrained by a response
// schema, then validates and decodes the answer.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"github.com/okian/careermap/internal/adapters/recommender"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/pkg/logger"
)

// Client talks to Gemini.
type Client struct {
	models      *genai.Models
	model       string
	temperature float32
	validators  map[string]*gojsonschema.Schema
	logger      logger.Logger
}

var _ recommender.Recommender = (*Client)(nil)

// New creates a client. The API key is mandatory.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	s := settings{model: DefaultModel, temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.httpClient,
	}
	if s.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	validators, err := compileValidators()
	if err != nil {
		return nil, fmt.Errorf("compile response schemas: %w", err)
	}
	l := s.logger
	if l == nil {
		l = logger.Get().Named("gemini")
	}
	return &Client{
		models:      client.Models,
		model:       s.model,
		temperature: s.temperature,
		validators:  validators,
		logger:      l,
	}, nil
}

// generate runs one structured call and decodes the validated answer into out.
func (c *Client) generate(ctx context.Context, op string, data, out any) error {
	prompt, err := renderPrompt(op, data)
	if err != nil {
		return recommender.Fail(op, fmt.Errorf("render prompt: %w", err))
	}
	temperature := c.temperature
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchemas[op],
	})
	if err != nil {
		return recommender.Fail(op, err)
	}
	text := CleanJSON(resp.Text())
	if text == "" {
		return recommender.Fail(op, ErrEmptyResponse)
	}
	if err := c.validate(op, text); err != nil {
		c.logger.Debug(ctx, "rejected model answer", logger.String("operation", op), logger.String("answer", text))
		return recommender.Fail(op, err)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return recommender.Fail(op, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}

func (c *Client) validate(op, text string) error {
	result, err := c.validators[op].Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
	}
	return nil
}

// RecommendClusters implements recommender.Recommender.
func (c *Client) RecommendClusters(ctx context.Context, req recommender.ClustersRequest) (model.CareerRecs, error) {
	var out model.CareerRecs
	if err := c.generate(ctx, recommender.OpRecommendClusters, req, &out); err != nil {
		return model.CareerRecs{}, err
	}
	return out, nil
}

// GenerateRoadmap implements recommender.Recommender.
func (c *Client) GenerateRoadmap(ctx context.Context, req recommender.RoadmapRequest) (model.Roadmap, error) {
	var out model.Roadmap
	if err := c.generate(ctx, recommender.OpGenerateRoadmap, req, &out); err != nil {
		return model.Roadmap{}, err
	}
	return out, nil
}

// SuggestMentors implements recommender.Recommender.
func (c *Client) SuggestMentors(ctx context.Context, req recommender.MentorsRequest) ([]model.Mentor, error) {
	var out struct {
		Mentors []model.Mentor `json:"mentors"`
	}
	if err := c.generate(ctx, recommender.OpSuggestMentors, req, &out); err != nil {
		return nil, err
	}
	return out.Mentors, nil
}

// ExplainCareer implements recommender.Recommender.
func (c *Client) ExplainCareer(ctx context.Context, req recommender.ExplainRequest) (model.CareerExplanation, error) {
	var out struct {
		Explanation model.CareerExplanation `json:"explanation"`
	}
	if err := c.generate(ctx, recommender.OpExplainCareer, req, &out); err != nil {
		return model.CareerExplanation{}, err
	}
	return out.Explanation, nil
}

// SimulateImpact implements recommender.Recommender.
func (c *Client) SimulateImpact(ctx context.Context, req recommender.ImpactRequest) (model.ImpactSimulation, error) {
	var out model.ImpactSimulation
	if err := c.generate(ctx, recommender.OpSimulateImpact, req, &out); err != nil {
		return model.ImpactSimulation{}, err
	}
	return out, nil
}

// CleanJSON strips markdown code fences models sometimes wrap JSON in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
