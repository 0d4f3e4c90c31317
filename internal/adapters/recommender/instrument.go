package recommender

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/pkg/logger"
	"github.com/okian/careermap/pkg/metrics"
)

// Option configures an Instrumented recommender.
type Option func(*Instrumented)

// WithTimeout bounds every call. Zero means calls may wait forever.
func WithTimeout(d time.Duration) Option {
	return func(i *Instrumented) {
		if d >= 0 {
			i.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l logger.Logger) Option {
	return func(i *Instrumented) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithTracerProvider sets where call spans go. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(i *Instrumented) {
		if tp != nil {
			i.tracer = tp.Tracer(instrumentationName)
		}
	}
}

const instrumentationName = "github.com/okian/careermap/recommender"

// Instrumented decorates a Recommender with metrics, tracing, logging, the
// optional timeout and error tagging.
type Instrumented struct {
	next    Recommender
	timeout time.Duration
	logger  logger.Logger
	tracer  trace.Tracer
}

// Instrument wraps next.
func Instrument(next Recommender, opts ...Option) *Instrumented {
	i := &Instrumented{
		next:   next,
		logger: logger.Get().Named("recommender"),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// begin opens the span and applies the timeout. The returned func must be
// called exactly once with the backend's error.
func (i *Instrumented) begin(ctx context.Context, op string) (context.Context, func(error) error) {
	ctx, span := i.tracer.Start(ctx, "recommender."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("recommender.operation", op)),
	)
	cctx, cancel := ctx, context.CancelFunc(func() {})
	if i.timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, i.timeout)
	}
	start := time.Now()
	return cctx, func(err error) error {
		cancel()
		defer span.End()
		if err = i.end(ctx, op, start, err); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}

func (i *Instrumented) end(ctx context.Context, op string, start time.Time, err error) error {
	metrics.RecordRecommenderLatency(op, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRecommenderCall(op, "error")
		metrics.RecordErrorByComponent("recommender", op)
		i.logger.Warn(ctx, "recommendation call failed", logger.String("operation", op), logger.Error(err))
		return Fail(op, err)
	}
	metrics.RecordRecommenderCall(op, "ok")
	i.logger.Debug(ctx, "recommendation call succeeded",
		logger.String("operation", op),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// RecommendClusters implements Recommender.
func (i *Instrumented) RecommendClusters(ctx context.Context, req ClustersRequest) (model.CareerRecs, error) {
	cctx, done := i.begin(ctx, OpRecommendClusters)
	out, err := i.next.RecommendClusters(cctx, req)
	if err == nil && len(out.CareerClusters) == 0 {
		err = errEmpty("careerClusters")
	}
	if err = done(err); err != nil {
		return model.CareerRecs{}, err
	}
	return out, nil
}

// GenerateRoadmap implements Recommender.
func (i *Instrumented) GenerateRoadmap(ctx context.Context, req RoadmapRequest) (model.Roadmap, error) {
	cctx, done := i.begin(ctx, OpGenerateRoadmap)
	out, err := i.next.GenerateRoadmap(cctx, req)
	if err = done(err); err != nil {
		return model.Roadmap{}, err
	}
	return out, nil
}

// SuggestMentors implements Recommender.
func (i *Instrumented) SuggestMentors(ctx context.Context, req MentorsRequest) ([]model.Mentor, error) {
	cctx, done := i.begin(ctx, OpSuggestMentors)
	out, err := i.next.SuggestMentors(cctx, req)
	if err = done(err); err != nil {
		return nil, err
	}
	return out, nil
}

// ExplainCareer implements Recommender.
func (i *Instrumented) ExplainCareer(ctx context.Context, req ExplainRequest) (model.CareerExplanation, error) {
	cctx, done := i.begin(ctx, OpExplainCareer)
	out, err := i.next.ExplainCareer(cctx, req)
	if err = done(err); err != nil {
		return model.CareerExplanation{}, err
	}
	return out, nil
}

// SimulateImpact implements Recommender.
func (i *Instrumented) SimulateImpact(ctx context.Context, req ImpactRequest) (model.ImpactSimulation, error) {
	cctx, done := i.begin(ctx, OpSimulateImpact)
	out, err := i.next.SimulateImpact(cctx, req)
	if err = done(err); err != nil {
		return model.ImpactSimulation{}, err
	}
	return out, nil
}

type emptyError string

func (e emptyError) Error() string { return "empty " + string(e) + " in response" }

func errEmpty(field string) error { return emptyError(field) }
