package simstats

import (
	"context"

	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/ingest"
	"github.com/hyp3rd/simstats/pkg/layout"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Service is the service interface of the simstats engine.
// It enables middleware to be added to the service.
type Service interface {
	// Ingest decodes one dump and stores it as the run identified by index.
	// A run ingested again replaces the previous one.
	Ingest(ctx context.Context, dump Dump) (*ingest.Catalog, error)
	// IngestAll decodes several dumps concurrently and stores them in order.
	IngestAll(ctx context.Context, dumps ...Dump) error
	// Runs returns the indices of the ingested runs in ingest order.
	Runs(ctx context.Context) []stat.Index
	// Root returns the hierarchy root of a run.
	Root(ctx context.Context, index stat.Index) (*hierarchy.Node, error)
	// Stat returns a stat of a run.
	Stat(ctx context.Context, index stat.Index, name string) (stat.Stat, error)
	// Aggregate reduces a stat of a run with the aggregator of the given kind.
	Aggregate(ctx context.Context, index stat.Index, name, kind string) (stat.Stat, error)
	// Aggregator returns the aggregator of the given kind. Its owner holds the
	// reduced value in the stats returned by Aggregate.
	Aggregator(ctx context.Context, kind string) (stat.Aggregator, error)
	// Layout lays out the named scalar of every run holding it for a bar chart.
	Layout(ctx context.Context, name string, mapping map[string]string) (*layout.Mapping, []layout.Row, error)
	// GetStats returns the operational stats of the engine.
	GetStats() stats.Stats
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}
	// Return the decorated service
	return svc
}
