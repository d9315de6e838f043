package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Ops records a span, a call counter, a duration histogram and an error
// counter for every operation of one client. Metric names are
// "<prefix>.operations", "<prefix>.operation.duration" and "<prefix>.errors".
type Ops struct {
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
	prefix string
}

// NewOps builds instruments from the current global providers. Call it after
// Init; with telemetry disabled the instruments are no-ops.
func NewOps(scope, prefix string) *Ops {
	m := Meter(scope)
	ops, _ := m.Int64Counter(prefix+".operations",
		metric.WithDescription("Total operations executed"),
	)
	dur, _ := m.Float64Histogram(prefix+".operation.duration",
		metric.WithDescription("Operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter(prefix+".errors",
		metric.WithDescription("Total operation errors"),
	)
	return &Ops{tracer: Tracer(scope), ops: ops, dur: dur, errs: errs, prefix: prefix}
}

// Span is an operation in flight.
type Span struct {
	o     *Ops
	ctx   context.Context
	span  trace.Span
	start time.Time
	attrs []attribute.KeyValue
}

// Start begins the named operation.
func (o *Ops) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	all := append([]attribute.KeyValue{attribute.String("op", name)}, attrs...)
	ctx, span := o.tracer.Start(ctx, o.prefix+"."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	o.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, &Span{o: o, ctx: ctx, span: span, start: time.Now(), attrs: all}
}

// SetAttributes adds attributes to the span only.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// End records duration and err (if any) and ends the span.
func (s *Span) End(err error) {
	ms := float64(time.Since(s.start).Milliseconds())
	s.o.dur.Record(s.ctx, ms, metric.WithAttributes(s.attrs...))
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		s.o.errs.Add(s.ctx, 1, metric.WithAttributes(s.attrs...))
	}
	s.span.End()
}
