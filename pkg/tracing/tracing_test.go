package tracing

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// keepExporter keeps exported spans across Shutdown.
type keepExporter struct{ *tracetest.InMemoryExporter }

func (keepExporter) Shutdown(context.Context) error { return nil }

func TestInit(t *testing.T) {
	Convey("Given the tracing setup", t, func() {
		ctx := context.Background()
		prev := otel.GetTracerProvider()
		defer otel.SetTracerProvider(prev)

		Convey("Without an endpoint the global provider is left alone", func() {
			shutdown, err := Init(ctx)
			So(err, ShouldBeNil)
			So(otel.GetTracerProvider(), ShouldEqual, prev)
			So(shutdown(ctx), ShouldBeNil)
		})

		Convey("With an exporter spans are exported on shutdown", func() {
			exp := keepExporter{tracetest.NewInMemoryExporter()}
			shutdown, err := Init(ctx, WithExporter(exp), WithServiceName("careermap-test"))
			So(err, ShouldBeNil)

			_, span := otel.Tracer("test").Start(ctx, "unit")
			span.End()
			So(shutdown(ctx), ShouldBeNil)

			spans := exp.GetSpans()
			So(spans, ShouldHaveLength, 1)
			So(spans[0].Name, ShouldEqual, "unit")
		})

		Convey("Sample rates map onto samplers", func() {
			So(sampler(1).Description(), ShouldEqual, "AlwaysOnSampler")
			So(sampler(0).Description(), ShouldEqual, "AlwaysOffSampler")
			So(sampler(0.5).Description(), ShouldContainSubstring, "TraceIDRatioBased")
		})

		Convey("Schemes are stripped from endpoints", func() {
			So(stripScheme("http://collector:4318"), ShouldEqual, "collector:4318")
			So(stripScheme("https://collector:4318"), ShouldEqual, "collector:4318")
			So(stripScheme("collector:4318"), ShouldEqual, "collector:4318")
		})
	})
}
