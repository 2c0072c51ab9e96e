package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/ingest"
	"github.com/hyp3rd/simstats/pkg/layout"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Stats recorded by StatsCollectorMiddleware for each service method.
const (
	IngestCallDuration    stats.Stat = "simstats_ingest_duration"
	IngestCallCount       stats.Stat = "simstats_ingest_count"
	IngestAllCallDuration stats.Stat = "simstats_ingest_all_duration"
	IngestAllCallCount    stats.Stat = "simstats_ingest_all_count"
	StatCallDuration      stats.Stat = "simstats_stat_duration"
	StatCallCount         stats.Stat = "simstats_stat_count"
	AggregateCallDuration stats.Stat = "simstats_aggregate_duration"
	AggregateCallCount    stats.Stat = "simstats_aggregate_count"
	LayoutCallDuration    stats.Stat = "simstats_layout_duration"
	LayoutCallCount       stats.Stat = "simstats_layout_count"
	CallErrors            stats.Stat = "simstats_errors"
)

// StatsCollectorMiddleware is a middleware that collects stats. It can and should re-use the same stats collector as the engine.
// Must implement the simstats.Service interface.
type StatsCollectorMiddleware struct {
	next           simstats.Service
	statsCollector stats.ICollector
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware(next simstats.Service, statsCollector stats.ICollector) simstats.Service {
	return &StatsCollectorMiddleware{next: next, statsCollector: statsCollector}
}

// Ingest collects stats for the Ingest method.
func (mw StatsCollectorMiddleware) Ingest(ctx context.Context, dump simstats.Dump) (*ingest.Catalog, error) {
	start := time.Now()

	catalog, err := mw.next.Ingest(ctx, dump)
	mw.record(IngestCallDuration, IngestCallCount, start, err)

	return catalog, err
}

// IngestAll collects stats for the IngestAll method.
func (mw StatsCollectorMiddleware) IngestAll(ctx context.Context, dumps ...simstats.Dump) error {
	start := time.Now()

	err := mw.next.IngestAll(ctx, dumps...)
	mw.record(IngestAllCallDuration, IngestAllCallCount, start, err)

	return err
}

// Runs passes through.
func (mw StatsCollectorMiddleware) Runs(ctx context.Context) []stat.Index {
	return mw.next.Runs(ctx)
}

// Root passes through.
func (mw StatsCollectorMiddleware) Root(ctx context.Context, index stat.Index) (*hierarchy.Node, error) {
	return mw.next.Root(ctx, index)
}

// Stat collects stats for the Stat method.
func (mw StatsCollectorMiddleware) Stat(ctx context.Context, index stat.Index, name string) (stat.Stat, error) {
	start := time.Now()

	s, err := mw.next.Stat(ctx, index, name)
	mw.record(StatCallDuration, StatCallCount, start, err)

	return s, err
}

// Aggregate collects stats for the Aggregate method.
func (mw StatsCollectorMiddleware) Aggregate(ctx context.Context, index stat.Index, name, kind string) (stat.Stat, error) {
	start := time.Now()

	s, err := mw.next.Aggregate(ctx, index, name, kind)
	mw.record(AggregateCallDuration, AggregateCallCount, start, err)

	return s, err
}

// Aggregator passes through.
func (mw StatsCollectorMiddleware) Aggregator(ctx context.Context, kind string) (stat.Aggregator, error) {
	return mw.next.Aggregator(ctx, kind)
}

// Layout collects stats for the Layout method.
func (mw StatsCollectorMiddleware) Layout(ctx context.Context, name string, mapping map[string]string) (*layout.Mapping, []layout.Row, error) {
	start := time.Now()

	m, rows, err := mw.next.Layout(ctx, name, mapping)
	mw.record(LayoutCallDuration, LayoutCallCount, start, err)

	return m, rows, err
}

// GetStats returns the stats collected by the next service.
func (mw StatsCollectorMiddleware) GetStats() stats.Stats {
	return mw.next.GetStats()
}

func (mw StatsCollectorMiddleware) record(duration, count stats.Stat, start time.Time, err error) {
	mw.statsCollector.Timing(duration, time.Since(start).Nanoseconds())
	mw.statsCollector.Incr(count, 1)

	if err != nil {
		mw.statsCollector.Incr(CallErrors, 1)
	}
}
