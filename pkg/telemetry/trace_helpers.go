package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "snipmd"

// Tracer returns a named tracer from the global provider, falling back to
// the application default when name is empty.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = defaultTracerName
	}
	return otel.GetTracerProvider().Tracer(name)
}

// WithSpan runs f inside a span, recording any returned error as the span
// status.
func WithSpan(ctx context.Context, name string, f func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := Tracer(defaultTracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	err := f(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}

// WithSpanFunc is WithSpan for functions with no error to report.
func WithSpanFunc(ctx context.Context, name string, f func(context.Context), attrs ...attribute.KeyValue) {
	ctx, span := Tracer(defaultTracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	f(ctx)
	span.SetStatus(codes.Ok, "")
}

// AddEvent attaches an event to the span in ctx.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes attaches attributes to the span in ctx.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// RecordError marks the span in ctx as failed with err.
func RecordError(ctx context.Context, err error, opts ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}
