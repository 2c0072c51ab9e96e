// Package aggregator implements the reductions that collapse a stat across its
// owners: sum, arithmetic and geometric mean, min and max for scalars, and the
// histogram merge for distributions.
//
// Every aggregator kind has exactly one instance per Registry. Its owner node
// is sealed and is the key under which the reduced value is stored, so results
// produced by the same kind always share the same synthetic owner.
package aggregator

import (
	"maps"
	"slices"
	"sync"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Env holds the dependencies handed to an aggregator constructor.
type Env struct {
	Logger    *zap.Logger
	Collector stats.ICollector
}

// Constructor builds an aggregator owned by owner.
type Constructor func(owner *hierarchy.Node, env Env) stat.Aggregator

type entry struct {
	name string
	ctor Constructor
}

// Registry manages aggregator constructors and the single instance of each kind.
type Registry struct {
	mu        sync.Mutex
	arena     *hierarchy.Arena
	logger    *zap.Logger
	collector stats.ICollector
	entries   map[string]entry
	instances map[string]stat.Aggregator
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for advisory warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCollector sets the stats collector fed by the aggregators.
func WithCollector(collector stats.ICollector) Option {
	return func(r *Registry) {
		if collector != nil {
			r.collector = collector
		}
	}
}

// getDefaultAggregators returns the default set of aggregators keyed by kind.
func getDefaultAggregators() map[string]entry {
	return map[string]entry{
		constants.AggregatorSum:     {name: "SummationAggregator", ctor: NewSum},
		constants.AggregatorMean:    {name: "ArithmeticMeanAggregator", ctor: NewArithmeticMean},
		constants.AggregatorGeoMean: {name: "GeometricMeanAggregator", ctor: NewGeometricMean},
		constants.AggregatorMin:     {name: "MinAggregator", ctor: NewMin},
		constants.AggregatorMax:     {name: "MaxAggregator", ctor: NewMax},
		constants.AggregatorCombine: {name: "CombineAggregator", ctor: NewCombine},
	}
}

// NewRegistry creates a registry with the default aggregators registered.
func NewRegistry(arena *hierarchy.Arena, opts ...Option) *Registry {
	r := NewEmptyRegistry(arena, opts...)
	maps.Copy(r.entries, getDefaultAggregators())

	return r
}

// NewEmptyRegistry creates a registry without default aggregators.
// This is useful for testing or when you want to register only specific aggregators.
func NewEmptyRegistry(arena *hierarchy.Arena, opts ...Option) *Registry {
	if arena == nil {
		arena = hierarchy.NewArena()
	}

	r := &Registry{
		arena:     arena,
		logger:    zap.NewNop(),
		collector: stats.Discard{},
		entries:   make(map[string]entry),
		instances: make(map[string]stat.Aggregator),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register registers a constructor for kind. The owner node is named name and
// lives under the Stats:: path prefix. An instance already built for kind is discarded.
func (r *Registry) Register(kind, name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[kind] = entry{name: name, ctor: ctor}
	delete(r.instances, kind)
}

// Get returns the instance of kind, building it on first use.
func (r *Registry) Get(kind string) (stat.Aggregator, error) {
	if kind == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "aggregator kind")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if agg, ok := r.instances[kind]; ok {
		return agg, nil
	}

	e, ok := r.entries[kind]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrAggregatorNotFound, kind)
	}

	owner := r.arena.NewSealedNode(e.name, constants.AggregatorPathPrefix+e.name)
	agg := e.ctor(owner, Env{Logger: r.logger, Collector: r.collector})
	r.instances[kind] = agg

	return agg, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Sorted(maps.Keys(r.entries))
}

// Reset drops every built instance; the next Get builds a fresh one.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.instances)
}

// base is embedded by every aggregator.
type base struct {
	owner     *hierarchy.Node
	logger    *zap.Logger
	collector stats.ICollector
}

func newBase(owner *hierarchy.Node, env Env) base {
	b := base{owner: owner, logger: env.Logger, collector: env.Collector}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}

	if b.collector == nil {
		b.collector = stats.Discard{}
	}

	return b
}

// Owner returns the synthetic owner node of the aggregator.
func (b base) Owner() *hierarchy.Node { return b.owner }

func (b base) warn(msg string, fields ...zap.Field) {
	b.logger.Warn(msg, append([]zap.Field{zap.String("aggregator", b.owner.Name())}, fields...)...)
	b.collector.Incr(stats.Warnings, 1)
}

func (b base) wrongVariant(want stat.Variant, s stat.Stat) error {
	return ewrap.Wrapf(sentinel.ErrWrongVariant, "%s aggregates a %s, got %s %q", b.owner.Name(), want, s.Variant(), s.Name())
}
