package main

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/pkg/middleware"
)

const instrumentationName = "github.com/hyp3rd/simstats/cmd/simstats"

// newService builds an engine wrapped with the telemetry middlewares. Metrics
// and spans go to the global OpenTelemetry providers.
func newService(logger *zap.Logger) (*simstats.Engine, simstats.Service, error) {
	engine := simstats.New(
		simstats.WithLogger(logger),
		simstats.WithIngestWorkers(workers),
	)

	svc, err := middleware.NewOTelMetricsMiddleware(engine, otel.GetMeterProvider().Meter(instrumentationName))
	if err != nil {
		return nil, nil, err
	}

	svc = middleware.NewOTelTracingMiddleware(svc, otel.Tracer(instrumentationName))

	if traceCalls {
		svc = middleware.NewLoggingMiddleware(svc, zap.NewStdLog(logger))
	}

	return engine, svc, nil
}
