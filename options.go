package simstats

import (
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats/internal/libs/serializer"
	"github.com/hyp3rd/simstats/pkg/aggregator"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Option is a function type that can be used to configure the `Engine` struct.
type Option func(*Engine)

// ApplyOptions applies the given options to the given engine.
func ApplyOptions(engine *Engine, options ...Option) {
	for _, option := range options {
		option(engine)
	}
}

// WithLogger sets the logger used for advisory warnings and engine events.
func WithLogger(logger *zap.Logger) Option {
	return func(engine *Engine) {
		if logger != nil {
			engine.logger = logger
		}
	}
}

// WithStatsCollector sets the collector counting engine events.
func WithStatsCollector(collector stats.ICollector) Option {
	return func(engine *Engine) {
		if collector != nil {
			engine.collector = collector
		}
	}
}

// WithArena sets the arena hierarchy nodes are allocated from.
func WithArena(arena *hierarchy.Arena) Option {
	return func(engine *Engine) {
		if arena != nil {
			engine.arena = arena
		}
	}
}

// WithAggregatorRegistry sets the aggregator registry. By default the engine
// builds one sharing its arena, logger and collector.
func WithAggregatorRegistry(registry *aggregator.Registry) Option {
	return func(engine *Engine) {
		engine.registry = registry
	}
}

// WithSerializerRegistry sets the registry used to decode dumps.
func WithSerializerRegistry(registry *serializer.Registry) Option {
	return func(engine *Engine) {
		if registry != nil {
			engine.serializers = registry
		}
	}
}

// WithIngestWorkers sets how many dumps IngestAll decodes concurrently.
// Values below 1 are raised to 1.
func WithIngestWorkers(workers int) Option {
	return func(engine *Engine) {
		engine.ingestWorkers = max(1, workers)
	}
}

// WithDefaultFormat sets the format assumed for dumps that do not name one.
func WithDefaultFormat(format string) Option {
	return func(engine *Engine) {
		if format != "" {
			engine.defaultFormat = format
		}
	}
}
