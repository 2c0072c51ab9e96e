package simstats

import (
	"context"
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

const dumpO3 = `{
  "simSeconds": {"type": "Scalar", "name": "simSeconds", "value": 0.25},
  "board": {
    "type": "Group",
    "cpu0": {
      "type": "Group",
      "ipc": {"type": "Scalar", "name": "ipc", "value": 2},
      "latency": {"type": "Distribution", "name": "latency", "value": [1, 2, 4], "num_bins": 3, "bin_size": 10, "min": 0}
    },
    "cpu1": {
      "type": "Group",
      "ipc": {"type": "Scalar", "name": "ipc", "value": 4},
      "latency": {"type": "Distribution", "name": "latency", "value": [8, 16], "num_bins": 2, "bin_size": 20, "min": 10}
    },
    "cpu2": {
      "type": "Group",
      "ipc": {"type": "Scalar", "name": "ipc", "value": null}
    }
  }
}`

const dumpMinor = `
board:
  type: Group
  cpu0:
    type: Group
    ipc: {type: Scalar, name: ipc, value: 1}
  cpu1:
    type: Group
    ipc: {type: Scalar, name: ipc, value: 3}
`

var (
	runO3    = stat.Index{"cpu": "o3", "workload": "bfs"}
	runMinor = stat.Index{"cpu": "minor", "workload": "bfs"}
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	engine := New(opts...)

	err := engine.IngestAll(context.Background(),
		Dump{Index: runO3, Data: []byte(dumpO3)},
		Dump{Index: runMinor, Format: constants.FormatYAML, Data: []byte(dumpMinor)},
	)
	assert.NoError(t, err)

	return engine
}

func TestEngine_Ingest(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	runs := engine.Runs(ctx)
	assert.Equal(t, 2, len(runs))
	assert.True(t, runs[0].Equal(runO3))
	assert.True(t, runs[1].Equal(runMinor))

	root, err := engine.Root(ctx, runO3)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(root.Children()))

	catalog, err := engine.Catalog(runO3)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ipc", "latency", "simSeconds"}, catalog.Names())

	s, err := engine.Stat(ctx, runMinor, "ipc")
	assert.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Index().Equal(runMinor))

	_, err = engine.Stat(ctx, runMinor, "latency")
	assert.True(t, errors.Is(err, sentinel.ErrStatNotFound))

	_, err = engine.Stat(ctx, stat.Index{"cpu": "atomic"}, "ipc")
	assert.True(t, errors.Is(err, sentinel.ErrRunNotFound))

	assert.Equal(t, int64(8), engine.GetStats().Total(stats.RecordsIngested))
}

func TestEngine_IngestReplacesRun(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	engine := newEngine(t, WithLogger(zap.New(core)))
	ctx := context.Background()

	catalog, err := engine.Ingest(ctx, Dump{Index: runMinor, Format: constants.FormatYAML, Data: []byte(dumpMinor)})
	assert.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())

	assert.Equal(t, 2, len(engine.Runs(ctx)))
	assert.Equal(t, 1, len(logs.FilterMessage("run ingested again, replacing it").All()))
}

func TestEngine_IndicesWithSeparatorsStayApart(t *testing.T) {
	engine := New()
	ctx := context.Background()

	joined := stat.Index{"cpu": "o3,mem=ddr4"}
	split := stat.Index{"cpu": "o3", "mem": "ddr4"}

	_, err := engine.Ingest(ctx, Dump{Index: joined, Data: []byte(`{"x": {"type": "Scalar", "name": "x", "value": 1}}`)})
	assert.NoError(t, err)

	_, err = engine.Ingest(ctx, Dump{Index: split, Data: []byte(`{"x": {"type": "Scalar", "name": "x", "value": 2}}`)})
	assert.NoError(t, err)

	assert.Equal(t, 2, len(engine.Runs(ctx)))

	for _, tt := range []struct {
		index stat.Index
		want  float64
	}{
		{index: joined, want: 1},
		{index: split, want: 2},
	} {
		s, err := engine.Stat(ctx, tt.index, "x")
		assert.NoError(t, err)
		assert.True(t, s.Index().Equal(tt.index))

		root, err := engine.Root(ctx, tt.index)
		assert.NoError(t, err)

		v, _ := s.(*stat.Scalar).Value(root)
		f, _ := v.Float()
		assert.Equal(t, tt.want, f)
	}
}

func TestEngine_IngestErrors(t *testing.T) {
	engine := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Ingest(ctx, Dump{Index: runO3, Data: []byte(dumpO3)})
	assert.True(t, errors.Is(err, sentinel.ErrTimeoutOrCanceled))

	err = engine.IngestAll(ctx, Dump{Index: runO3, Data: []byte(dumpO3)})
	assert.True(t, errors.Is(err, sentinel.ErrTimeoutOrCanceled))

	_, err = engine.Ingest(context.Background(), Dump{Index: runO3, Format: "toml", Data: []byte(dumpO3)})
	assert.True(t, errors.Is(err, sentinel.ErrSerializerNotFound))

	err = engine.IngestAll(context.Background(),
		Dump{Index: runO3, Data: []byte(dumpO3)},
		Dump{Index: runMinor, Data: []byte(`{"broken"`)},
	)
	assert.False(t, err == nil)
	assert.Equal(t, 0, len(engine.Runs(context.Background())))
}

func TestEngine_Aggregate(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	mean, err := engine.Aggregate(ctx, runO3, "ipc", constants.AggregatorMean)
	assert.NoError(t, err)

	agg, err := engine.Registry().Get(constants.AggregatorMean)
	assert.NoError(t, err)

	v, ok := mean.(*stat.Scalar).Value(agg.Owner())
	assert.True(t, ok)

	f, _ := v.Float()
	assert.Equal(t, 3.0, f)

	combined, err := engine.Aggregate(ctx, runO3, "latency", constants.AggregatorCombine)
	assert.NoError(t, err)
	assert.Equal(t, 3, combined.Len())

	_, err = engine.Aggregate(ctx, runO3, "latency", constants.AggregatorSum)
	assert.True(t, errors.Is(err, sentinel.ErrWrongVariant))

	_, err = engine.Aggregate(ctx, runO3, "ipc", "median")
	assert.True(t, errors.Is(err, sentinel.ErrAggregatorNotFound))

	got := engine.GetStats()
	assert.Equal(t, int64(2), got.Total(stats.Aggregations))
	assert.Equal(t, int64(2), got.Total(stats.LossyMerges))
}

func TestEngine_Layout(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	m, rows, err := engine.Layout(ctx, "ipc", nil)
	assert.NoError(t, err)

	// cpu2 only reports ipc in the o3 run
	assert.Equal(t, 2, len(m.Owners()))
	assert.Equal(t, 4, len(rows))

	_, _, err = engine.Layout(ctx, "cycles", nil)
	assert.True(t, errors.Is(err, sentinel.ErrStatNotFound))

	_, _, err = engine.Layout(ctx, "ipc", map[string]string{"cpu": "hue"})
	assert.True(t, errors.Is(err, sentinel.ErrInvalidMapping))
}

func TestApplyMiddleware(t *testing.T) {
	var calls []string

	wrap := func(name string) Middleware {
		return func(next Service) Service {
			calls = append(calls, name)

			return next
		}
	}

	engine := New()
	svc := ApplyMiddleware(engine, wrap("first"), wrap("second"))

	assert.True(t, svc == Service(engine))
	assert.Equal(t, []string{"first", "second"}, calls)
}
