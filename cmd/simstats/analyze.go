package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

var (
	outFile   string
	withStats bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <analysis.yaml>",
	Short: "Ingest the runs of an analysis file and report its aggregations and layouts as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysis, err := LoadAnalysis(args[0])
		if err != nil {
			return err
		}

		engine, svc, err := newService(logger)
		if err != nil {
			return err
		}

		report, err := Analyze(cmd.Context(), svc, analysis)
		if err != nil {
			return err
		}

		if withStats {
			report.EngineStats = engine.GetStats()
		}

		out := io.Writer(os.Stdout)

		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()

			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(report)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the report to this file instead of stdout")
	analyzeCmd.Flags().BoolVar(&withStats, "engine-stats", false, "include the engine's own counters in the report")
}

// Report is the result of an analysis.
type Report struct {
	Runs         []stat.Index        `json:"runs"`
	Aggregations []AggregationResult `json:"aggregations,omitempty"`
	Layouts      []LayoutResult      `json:"layouts,omitempty"`
	EngineStats  stats.Stats         `json:"engine_stats,omitempty"`
}

// AggregationResult is one stat of one run reduced by one aggregator.
// Runs without the stat carry an error instead of a value.
type AggregationResult struct {
	Run        string           `json:"run"`
	Stat       string           `json:"stat"`
	Aggregator string           `json:"aggregator"`
	Value      *stat.Value      `json:"value,omitempty"`
	Histogram  *HistogramResult `json:"histogram,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// HistogramResult is a merged histogram on its uniform grid.
type HistogramResult struct {
	Start       int64     `json:"start"`
	BinSize     int64     `json:"bin_size"`
	Frequencies []float64 `json:"frequencies"`
}

// LayoutResult is a bar chart layout of one scalar across runs.
type LayoutResult struct {
	Stat    string      `json:"stat"`
	Mapping string      `json:"mapping"`
	Bars    []BarResult `json:"bars"`
}

// BarResult is one bar of a layout.
type BarResult struct {
	Run   string         `json:"run"`
	Owner string         `json:"owner"`
	Value stat.Value     `json:"value"`
	IDs   map[string]int `json:"ids"`
	Color string         `json:"color"`
	Hatch string         `json:"hatch,omitempty"`
}

// Analyze ingests the runs of a and computes its aggregations and layouts.
func Analyze(ctx context.Context, svc simstats.Service, a *Analysis) (*Report, error) {
	dumps, err := a.Dumps()
	if err != nil {
		return nil, err
	}

	err = svc.IngestAll(ctx, dumps...)
	if err != nil {
		return nil, err
	}

	report := &Report{Runs: svc.Runs(ctx)}

	for _, agg := range a.Aggregations {
		for _, index := range report.Runs {
			res, err := aggregate(ctx, svc, index, agg)
			if err != nil {
				return nil, err
			}

			report.Aggregations = append(report.Aggregations, res)
		}
	}

	for _, spec := range a.Layouts {
		m, rows, err := svc.Layout(ctx, spec.Stat, spec.Mapping)
		if err != nil {
			return nil, err
		}

		res := LayoutResult{Stat: spec.Stat, Mapping: m.String(), Bars: make([]BarResult, 0, len(rows))}
		for _, row := range rows {
			ids := make(map[string]int, len(row.IDs))
			for ch, id := range row.IDs {
				ids[string(ch)] = id
			}

			res.Bars = append(res.Bars, BarResult{
				Run:   row.Index.String(),
				Owner: row.Owner,
				Value: row.Value,
				IDs:   ids,
				Color: row.Color.Hex,
				Hatch: row.Hatch,
			})
		}

		report.Layouts = append(report.Layouts, res)
	}

	return report, nil
}

// aggregate reduces one stat of one run. A run lacking the stat or holding
// nothing to aggregate is reported, not failed.
func aggregate(ctx context.Context, svc simstats.Service, index stat.Index, agg Aggregation) (AggregationResult, error) {
	res := AggregationResult{Run: index.String(), Stat: agg.Stat, Aggregator: agg.Aggregator}

	out, err := svc.Aggregate(ctx, index, agg.Stat, agg.Aggregator)

	switch {
	case errors.Is(err, sentinel.ErrStatNotFound), errors.Is(err, sentinel.ErrEmptyAggregation):
		logger.Warn("aggregation skipped", zap.Stringer("run", index), zap.String("stat", agg.Stat), zap.Error(err))
		res.Error = err.Error()

		return res, nil
	case err != nil:
		return res, err
	}

	aggregator, err := svc.Aggregator(ctx, agg.Aggregator)
	if err != nil {
		return res, err
	}

	owner := aggregator.Owner()

	switch s := out.(type) {
	case *stat.Scalar:
		if v, ok := s.Value(owner); ok {
			res.Value = &v
		}
	case *stat.Distribution:
		if h, ok := s.Histogram(owner); ok {
			res.Histogram = &HistogramResult{Start: h.Start(), BinSize: h.Width(), Frequencies: h.Frequencies()}
		}
	}

	return res, nil
}
