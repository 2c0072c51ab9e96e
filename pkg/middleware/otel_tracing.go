package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/internal/telemetry/attrs"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/ingest"
	"github.com/hyp3rd/simstats/pkg/layout"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// OTelTracingMiddleware wraps simstats.Service methods with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   simstats.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next simstats.Service, tracer trace.Tracer, opts ...OTelTracingOption) simstats.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Ingest implements Service.Ingest with tracing.
func (mw OTelTracingMiddleware) Ingest(ctx context.Context, dump simstats.Dump) (*ingest.Catalog, error) {
	ctx, span := mw.startSpan(
		ctx, "simstats.Ingest",
		attribute.String(attrs.AttrRun, dump.Index.String()),
		attribute.String(attrs.AttrFormat, dump.Format),
		attribute.Int(attrs.AttrBytes, len(dump.Data)))
	defer span.End()

	catalog, err := mw.next.Ingest(ctx, dump)
	if err != nil {
		fail(span, err)

		return catalog, err
	}

	span.SetAttributes(attribute.Int(attrs.AttrStatCount, catalog.Len()))

	return catalog, nil
}

// IngestAll implements Service.IngestAll with tracing.
func (mw OTelTracingMiddleware) IngestAll(ctx context.Context, dumps ...simstats.Dump) error {
	ctx, span := mw.startSpan(ctx, "simstats.IngestAll", attribute.Int("dumps.count", len(dumps)))
	defer span.End()

	err := mw.next.IngestAll(ctx, dumps...)
	if err != nil {
		fail(span, err)
	}

	return err
}

// Runs implements Service.Runs with tracing.
func (mw OTelTracingMiddleware) Runs(ctx context.Context) []stat.Index {
	ctx, span := mw.startSpan(ctx, "simstats.Runs")
	defer span.End()

	runs := mw.next.Runs(ctx)
	span.SetAttributes(attribute.Int("runs.count", len(runs)))

	return runs
}

// Root implements Service.Root with tracing.
func (mw OTelTracingMiddleware) Root(ctx context.Context, index stat.Index) (*hierarchy.Node, error) {
	ctx, span := mw.startSpan(ctx, "simstats.Root", attribute.String(attrs.AttrRun, index.String()))
	defer span.End()

	root, err := mw.next.Root(ctx, index)
	if err != nil {
		fail(span, err)
	}

	return root, err
}

// Stat implements Service.Stat with tracing.
func (mw OTelTracingMiddleware) Stat(ctx context.Context, index stat.Index, name string) (stat.Stat, error) {
	ctx, span := mw.startSpan(
		ctx, "simstats.Stat",
		attribute.String(attrs.AttrRun, index.String()),
		attribute.String(attrs.AttrStatName, name))
	defer span.End()

	s, err := mw.next.Stat(ctx, index, name)
	if err != nil {
		fail(span, err)

		return s, err
	}

	span.SetAttributes(attribute.Int(attrs.AttrOwnerCount, s.Len()))

	return s, nil
}

// Aggregate implements Service.Aggregate with tracing.
func (mw OTelTracingMiddleware) Aggregate(ctx context.Context, index stat.Index, name, kind string) (stat.Stat, error) {
	ctx, span := mw.startSpan(
		ctx, "simstats.Aggregate",
		attribute.String(attrs.AttrRun, index.String()),
		attribute.String(attrs.AttrStatName, name),
		attribute.String(attrs.AttrAggregator, kind))
	defer span.End()

	s, err := mw.next.Aggregate(ctx, index, name, kind)
	if err != nil {
		fail(span, err)
	}

	return s, err
}

// Aggregator implements Service.Aggregator with tracing.
func (mw OTelTracingMiddleware) Aggregator(ctx context.Context, kind string) (stat.Aggregator, error) {
	ctx, span := mw.startSpan(ctx, "simstats.Aggregator", attribute.String(attrs.AttrAggregator, kind))
	defer span.End()

	agg, err := mw.next.Aggregator(ctx, kind)
	if err != nil {
		fail(span, err)
	}

	return agg, err
}

// Layout implements Service.Layout with tracing.
func (mw OTelTracingMiddleware) Layout(ctx context.Context, name string, mapping map[string]string) (*layout.Mapping, []layout.Row, error) {
	ctx, span := mw.startSpan(ctx, "simstats.Layout", attribute.String(attrs.AttrStatName, name))
	defer span.End()

	m, rows, err := mw.next.Layout(ctx, name, mapping)
	if err != nil {
		fail(span, err)

		return m, rows, err
	}

	span.SetAttributes(
		attribute.String("mapping", m.String()),
		attribute.Int(attrs.AttrOwnerCount, len(m.Owners())),
		attribute.Int("rows.count", len(rows)))

	return m, rows, nil
}

// GetStats returns stats.
func (mw OTelTracingMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
