// Package simstats ingests hierarchical simulation statistics and aggregates
// them across owners.
//
// An Engine keeps, for every run, the owner hierarchy and the catalog of stats
// decoded from its dump. Stats are looked up by run index and name, reduced
// with the aggregators of pkg/aggregator and laid out for comparative bar
// charts with pkg/layout. Engine implements Service, so the middlewares of
// pkg/middleware can wrap it.
package simstats

import (
	"context"
	"sync"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats/internal/libs/serializer"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/internal/workerpool"
	"github.com/hyp3rd/simstats/pkg/aggregator"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/ingest"
	"github.com/hyp3rd/simstats/pkg/layout"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Dump is the raw statistics output of one run.
type Dump struct {
	// Index identifies the run.
	Index stat.Index
	// Format names the serializer; empty means the engine default.
	Format string
	// Data is the encoded dump.
	Data []byte
}

var _ Service = (*Engine)(nil)

type run struct {
	index   stat.Index
	root    *hierarchy.Node
	catalog *ingest.Catalog
}

// Engine stores ingested runs and serves lookups and aggregations.
type Engine struct {
	mu   sync.RWMutex
	runs map[uint64]*run
	// order holds run keys in ingest order
	order []uint64

	arena         *hierarchy.Arena
	registry      *aggregator.Registry
	serializers   *serializer.Registry
	logger        *zap.Logger
	collector     stats.ICollector
	ingestWorkers int
	defaultFormat string
}

// New returns an engine configured with NewConfig defaults followed by opts.
func New(opts ...Option) *Engine {
	config := NewConfig()
	config.EngineOptions = append(config.EngineOptions, opts...)

	return NewFromConfig(config)
}

// NewFromConfig returns an engine configured by config.
func NewFromConfig(config *Config) *Engine {
	if config == nil {
		config = NewConfig()
	}

	engine := &Engine{
		runs:        make(map[uint64]*run),
		arena:       hierarchy.NewArena(),
		serializers: serializer.NewSerializerRegistry(),
		logger:      zap.NewNop(),
		collector:   stats.NewHistogramStatsCollector(),
	}

	ApplyOptions(engine, config.EngineOptions...)

	if engine.registry == nil {
		engine.registry = aggregator.NewRegistry(engine.arena,
			aggregator.WithLogger(engine.logger),
			aggregator.WithCollector(engine.collector),
		)
	}

	if engine.ingestWorkers < 1 {
		engine.ingestWorkers = 1
	}

	return engine
}

// Ingest decodes one dump and stores it as the run identified by its index.
func (e *Engine) Ingest(ctx context.Context, dump Dump) (*ingest.Catalog, error) {
	if ctx.Err() != nil {
		return nil, ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, ctx.Err().Error())
	}

	tree, err := e.decode(dump)
	if err != nil {
		return nil, err
	}

	return e.store(dump.Index, tree)
}

// IngestAll decodes the dumps concurrently, then walks and stores them in the
// given order. Nothing is stored when any dump fails to decode.
func (e *Engine) IngestAll(ctx context.Context, dumps ...Dump) error {
	if ctx.Err() != nil {
		return ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, ctx.Err().Error())
	}

	trees := make([]map[string]any, len(dumps))
	pool := workerpool.New(min(e.ingestWorkers, max(1, len(dumps))))

	for i, dump := range dumps {
		pool.Enqueue(func() error {
			tree, err := e.decode(dump)
			if err != nil {
				return err
			}

			trees[i] = tree

			return nil
		})
	}

	err := pool.Shutdown()
	if err != nil {
		return ewrap.Wrap(err, "decoding dumps")
	}

	for i, tree := range trees {
		_, err := e.store(dumps[i].Index, tree)
		if err != nil {
			return err
		}
	}

	return nil
}

// Runs returns the indices of the ingested runs in ingest order.
func (e *Engine) Runs(_ context.Context) []stat.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]stat.Index, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.runs[key].index.Clone())
	}

	return out
}

// Root returns the hierarchy root of a run.
func (e *Engine) Root(_ context.Context, index stat.Index) (*hierarchy.Node, error) {
	r, err := e.run(index)
	if err != nil {
		return nil, err
	}

	return r.root, nil
}

// Catalog returns the stats of a run.
func (e *Engine) Catalog(index stat.Index) (*ingest.Catalog, error) {
	r, err := e.run(index)
	if err != nil {
		return nil, err
	}

	return r.catalog, nil
}

// Stat returns a stat of a run.
func (e *Engine) Stat(_ context.Context, index stat.Index, name string) (stat.Stat, error) {
	r, err := e.run(index)
	if err != nil {
		return nil, err
	}

	return r.catalog.Lookup(name)
}

// Aggregate reduces a stat of a run with the aggregator of the given kind.
func (e *Engine) Aggregate(ctx context.Context, index stat.Index, name, kind string) (stat.Stat, error) {
	s, err := e.Stat(ctx, index, name)
	if err != nil {
		return nil, err
	}

	agg, err := e.registry.Get(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	out, err := s.AggregateWith(agg)
	if err != nil {
		return nil, ewrap.Wrapf(err, "run %s", index)
	}

	e.collector.Timing(stats.AggregateDuration, time.Since(start).Nanoseconds())

	return out, nil
}

// Aggregator returns the aggregator of the given kind.
func (e *Engine) Aggregator(_ context.Context, kind string) (stat.Aggregator, error) {
	return e.registry.Get(kind)
}

// Layout lays out the named scalar of every run holding it for a bar chart.
// mapping may be nil to let the layout infer the channels.
func (e *Engine) Layout(_ context.Context, name string, mapping map[string]string) (*layout.Mapping, []layout.Row, error) {
	e.mu.RLock()

	var selected []stat.Stat

	for _, key := range e.order {
		if s, ok := e.runs[key].catalog.Get(name); ok {
			selected = append(selected, s)
		}
	}

	e.mu.RUnlock()

	if len(selected) == 0 {
		return nil, nil, ewrap.Wrapf(sentinel.ErrStatNotFound, "%q in any run", name)
	}

	m, err := layout.BuildMapping(e.logger, selected, mapping)
	if err != nil {
		return nil, nil, err
	}

	rows, err := layout.Table(selected, m)
	if err != nil {
		return nil, nil, err
	}

	return m, rows, nil
}

// Registry returns the aggregator registry.
func (e *Engine) Registry() *aggregator.Registry { return e.registry }

// GetStats returns the operational stats of the engine.
func (e *Engine) GetStats() stats.Stats {
	return e.collector.GetStats()
}

func (e *Engine) decode(dump Dump) (map[string]any, error) {
	format := dump.Format
	if format == "" {
		format = e.defaultFormat
	}

	tree, err := e.serializers.Decode(format, dump.Data)
	if err != nil {
		return nil, ewrap.Wrapf(err, "run %s", dump.Index)
	}

	return tree, nil
}

// store walks tree under the write lock so node ids follow ingest order.
func (e *Engine) store(index stat.Index, tree map[string]any) (*ingest.Catalog, error) {
	index = index.Clone()
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	walker := ingest.NewWalker(e.arena, ingest.WithLogger(e.logger), ingest.WithCollector(e.collector))

	root, catalog, err := walker.Run(index, tree)
	if err != nil {
		return nil, ewrap.Wrapf(err, "run %s", index)
	}

	key := index.Key()

	existing, ok := e.runs[key]

	switch {
	case !ok:
		e.order = append(e.order, key)
	case !existing.index.Equal(index):
		return nil, ewrap.Wrapf(sentinel.ErrIndexMismatch, "run %s collides with run %s", index, existing.index)
	default:
		e.logger.Warn("run ingested again, replacing it", zap.Stringer("run", index))
	}

	e.runs[key] = &run{index: index, root: root, catalog: catalog}

	e.collector.Timing(stats.IngestDuration, time.Since(start).Nanoseconds())
	e.logger.Debug("run ingested",
		zap.Stringer("run", index),
		zap.Int("stats", catalog.Len()),
	)

	return catalog, nil
}

func (e *Engine) run(index stat.Index) (*run, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, ok := e.runs[index.Key()]
	if !ok || !r.index.Equal(index) {
		return nil, ewrap.Wrapf(sentinel.ErrRunNotFound, "%s", index)
	}

	return r, nil
}
