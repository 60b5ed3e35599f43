package navigator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is used when WithTracing is given an empty name.
const defaultTracerName = "roomnav"

type tracer struct {
	t trace.Tracer
}

func newTracer(name string) *tracer {
	if name == "" {
		name = defaultTracerName
	}
	return &tracer{t: otel.Tracer(name)}
}

// startSpan opens a span for one navigation attempt. When tracing is
// disabled the context is returned untouched.
func (n *Navigator) startSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	if n.tracer == nil {
		return ctx, nil
	}
	return n.tracer.t.Start(ctx, "navigator.navigate",
		trace.WithAttributes(attribute.String("roomnav.path", path)),
	)
}

// endSpan records the chosen tier and outcome and closes the span.
func (n *Navigator) endSpan(span trace.Span, tier string, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("roomnav.tier", tier))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
