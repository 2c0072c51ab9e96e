// Package middleware provides middleware implementations for the simstats service.
// This package includes logging middleware that wraps the service to provide
// execution time logging and method call tracing for debugging and monitoring purposes.
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

// Logger describes a logging interface allowing to implement different external, or custom logger.
// zap.NewStdLog and the standard library logger both satisfy it.
type Logger interface {
	Printf(format string, v ...any)
}

// LoggingMiddleware is a middleware that logs the time it takes to execute the next middleware.
// Must implement the simstats.Service interface.
type LoggingMiddleware struct {
	next   simstats.Service
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next simstats.Service, logger Logger) simstats.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

// Ingest logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Ingest(ctx context.Context, dump simstats.Dump) (*ingest.Catalog, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Ingest took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Ingest method called with run: %s (%d bytes)", dump.Index, len(dump.Data))

	return mw.next.Ingest(ctx, dump)
}

// IngestAll logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) IngestAll(ctx context.Context, dumps ...simstats.Dump) error {
	defer func(begin time.Time) {
		mw.logger.Printf("method IngestAll took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("IngestAll method called with %d dumps", len(dumps))

	return mw.next.IngestAll(ctx, dumps...)
}

// Runs logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Runs(ctx context.Context) []stat.Index {
	defer func(begin time.Time) {
		mw.logger.Printf("method Runs took: %s", time.Since(begin))
	}(time.Now())

	return mw.next.Runs(ctx)
}

// Root logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Root(ctx context.Context, index stat.Index) (*hierarchy.Node, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Root took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Root method called with run: %s", index)

	return mw.next.Root(ctx, index)
}

// Stat logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Stat(ctx context.Context, index stat.Index, name string) (stat.Stat, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Stat took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Stat method called with run: %s, name: %s", index, name)

	return mw.next.Stat(ctx, index, name)
}

// Aggregate logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Aggregate(ctx context.Context, index stat.Index, name, kind string) (stat.Stat, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Aggregate took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Aggregate method called with run: %s, name: %s, aggregator: %s", index, name, kind)

	return mw.next.Aggregate(ctx, index, name, kind)
}

// Aggregator logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Aggregator(ctx context.Context, kind string) (stat.Aggregator, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Aggregator took: %s", time.Since(begin))
	}(time.Now())

	return mw.next.Aggregator(ctx, kind)
}

// Layout logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Layout(ctx context.Context, name string, mapping map[string]string) (*layout.Mapping, []layout.Row, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Layout took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Layout method called with name: %s, mapping: %v", name, mapping)

	return mw.next.Layout(ctx, name, mapping)
}

// GetStats logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) GetStats() stats.Stats {
	defer func(begin time.Time) {
		mw.logger.Printf("method GetStats took: %s", time.Since(begin))
	}(time.Now())

	return mw.next.GetStats()
}
