package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/internal/telemetry/attrs"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/ingest"
	"github.com/hyp3rd/simstats/pkg/layout"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service methods.
type OTelMetricsMiddleware struct {
	next  simstats.Service
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	errors    metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next simstats.Service, meter metric.Meter) (simstats.Service, error) {
	calls, err := meter.Int64Counter("simstats.calls")
	if err != nil {
		return nil, ewrap.Wrap(err, "create counter")
	}

	errs, err := meter.Int64Counter("simstats.errors")
	if err != nil {
		return nil, ewrap.Wrap(err, "create error counter")
	}

	durations, err := meter.Float64Histogram("simstats.duration.ms")
	if err != nil {
		return nil, ewrap.Wrap(err, "create histogram")
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, calls: calls, errors: errs, durations: durations}, nil
}

// Ingest implements Service.Ingest with metrics.
func (mw *OTelMetricsMiddleware) Ingest(ctx context.Context, dump simstats.Dump) (*ingest.Catalog, error) {
	start := time.Now()
	catalog, err := mw.next.Ingest(ctx, dump)

	n := 0
	if catalog != nil {
		n = catalog.Len()
	}

	mw.rec(ctx, "Ingest", start, err, attribute.Int(attrs.AttrBytes, len(dump.Data)), attribute.Int(attrs.AttrStatCount, n))

	return catalog, err
}

// IngestAll implements Service.IngestAll with metrics.
func (mw *OTelMetricsMiddleware) IngestAll(ctx context.Context, dumps ...simstats.Dump) error {
	start := time.Now()
	err := mw.next.IngestAll(ctx, dumps...)
	mw.rec(ctx, "IngestAll", start, err, attribute.Int("dumps.count", len(dumps)))

	return err
}

// Runs returns the ingested runs.
func (mw *OTelMetricsMiddleware) Runs(ctx context.Context) []stat.Index { return mw.next.Runs(ctx) }

// Root returns the hierarchy root of a run.
func (mw *OTelMetricsMiddleware) Root(ctx context.Context, index stat.Index) (*hierarchy.Node, error) {
	return mw.next.Root(ctx, index)
}

// Stat implements Service.Stat with metrics.
func (mw *OTelMetricsMiddleware) Stat(ctx context.Context, index stat.Index, name string) (stat.Stat, error) {
	start := time.Now()
	s, err := mw.next.Stat(ctx, index, name)
	mw.rec(ctx, "Stat", start, err, attribute.String(attrs.AttrStatName, name))

	return s, err
}

// Aggregate implements Service.Aggregate with metrics.
func (mw *OTelMetricsMiddleware) Aggregate(ctx context.Context, index stat.Index, name, kind string) (stat.Stat, error) {
	start := time.Now()
	s, err := mw.next.Aggregate(ctx, index, name, kind)
	mw.rec(ctx, "Aggregate", start, err, attribute.String(attrs.AttrStatName, name), attribute.String(attrs.AttrAggregator, kind))

	return s, err
}

// Aggregator returns the aggregator of a kind.
func (mw *OTelMetricsMiddleware) Aggregator(ctx context.Context, kind string) (stat.Aggregator, error) {
	return mw.next.Aggregator(ctx, kind)
}

// Layout implements Service.Layout with metrics.
func (mw *OTelMetricsMiddleware) Layout(ctx context.Context, name string, mapping map[string]string) (*layout.Mapping, []layout.Row, error) {
	start := time.Now()
	m, rows, err := mw.next.Layout(ctx, name, mapping)
	mw.rec(ctx, "Layout", start, err, attribute.String(attrs.AttrStatName, name), attribute.Int("rows.count", len(rows)))

	return m, rows, err
}

// GetStats returns stats.
func (mw *OTelMetricsMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// rec records call count, errors and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, method string, start time.Time, err error, attributes ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String("method", method)}
	if len(attributes) > 0 {
		base = append(base, attributes...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(base...))

	if err != nil {
		mw.errors.Add(ctx, 1, metric.WithAttributes(base...))
	}
}
