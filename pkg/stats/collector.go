package stats

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
)

// ICollector is an interface that defines the methods that a stats collector should implement.
type ICollector interface {
	// Incr increments the count of a statistic by the given value.
	Incr(stat Stat, value int64)
	// Timing records the time it took for an event to occur, in nanoseconds.
	Timing(stat Stat, value int64)
	// Histogram records the statistical distribution of a set of values.
	Histogram(stat Stat, value int64)
	// GetStats returns the collected statistics.
	GetStats() Stats
}

// CollectorRegistry manages stats collector constructors.
type CollectorRegistry struct {
	collectors map[string]func() ICollector
}

// NewCollectorRegistry creates a new collector registry with default collectors pre-registered.
func NewCollectorRegistry() *CollectorRegistry {
	registry := NewEmptyCollectorRegistry()

	registry.Register("default", func() ICollector { return NewHistogramStatsCollector() })
	registry.Register("discard", func() ICollector { return Discard{} })

	return registry
}

// NewEmptyCollectorRegistry creates a new collector registry without default collectors.
// This is useful for testing or when you want to register only specific collectors.
func NewEmptyCollectorRegistry() *CollectorRegistry {
	return &CollectorRegistry{
		collectors: make(map[string]func() ICollector),
	}
}

// Register registers a new stats collector with the given name.
func (r *CollectorRegistry) Register(name string, createFunc func() ICollector) {
	r.collectors[name] = createFunc
}

// NewCollector creates a new stats collector.
func (r *CollectorRegistry) NewCollector(name string) (ICollector, error) {
	if name == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "statsCollectorName")
	}

	createFunc, ok := r.collectors[name]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrStatsCollectorNotFound, name)
	}

	return createFunc(), nil
}

// Discard is a collector that records nothing.
type Discard struct{}

// Incr does nothing.
func (Discard) Incr(Stat, int64) {}

// Timing does nothing.
func (Discard) Timing(Stat, int64) {}

// Histogram does nothing.
func (Discard) Histogram(Stat, int64) {}

// GetStats returns an empty set.
func (Discard) GetStats() Stats { return Stats{} }
