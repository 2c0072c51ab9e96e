package ingest

import (
	"errors"
	"math"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

func scalarEntry(name string, v any) map[string]any {
	return map[string]any{"type": "Scalar", "name": name, "value": v}
}

func sampleTree() map[string]any {
	return map[string]any{
		"simSeconds": scalarEntry("simSeconds", 0.5),
		"board": map[string]any{
			"type": "Group",
			"cpu0": map[string]any{
				"type": "Group",
				"ipc":  scalarEntry("ipc", 1.25),
				"latency": map[string]any{
					"type": "Distribution", "name": "latency",
					"value": []any{1, 2, 3}, "num_bins": 3, "bin_size": 10, "min": 0,
				},
				"fetch.width": scalarEntry("fetch.width", 4),
				"mystery":     map[string]any{"type": "Vector", "value": []any{1, 2}},
			},
			"cpu1": map[string]any{
				"type": "Group",
				"ipc":  scalarEntry("ipc", nil),
				"cpi":  scalarEntry("cpi", math.Inf(1)),
			},
		},
	}
}

func TestWalker_Run(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	collector := stats.NewHistogramStatsCollector()
	w := NewWalker(hierarchy.NewArena(), WithLogger(zap.New(core)), WithCollector(collector))

	root, cat, err := w.Run(stat.Index{"workload": "bfs"}, sampleTree())
	assert.NoError(t, err)

	assert.Equal(t, "root", root.Name())
	assert.Equal(t, "", root.Path())

	board, ok := hierarchy.Find(root, "board")
	assert.True(t, ok)
	assert.Equal(t, 2, len(board.Children()))

	cpu0, ok := hierarchy.Find(root, "board.cpu0")
	assert.True(t, ok)

	cpu1, ok := hierarchy.Find(root, "board.cpu1")
	assert.True(t, ok)

	assert.Equal(t, []string{"ipc", "latency", "cpi", "simSeconds"}, cat.Names())
	assert.Equal(t, 3, len(cat.Scalars()))
	assert.Equal(t, 1, len(cat.Distributions()))

	s, ok := cat.Get("ipc")
	assert.True(t, ok)
	assert.True(t, s.Index().Equal(stat.Index{"workload": "bfs"}))

	ipc := s.(*stat.Scalar)
	v0, _ := ipc.Value(cpu0)
	v1, _ := ipc.Value(cpu1)
	f, _ := v0.Float()
	assert.Equal(t, 1.25, f)
	assert.True(t, v1.IsMissing())

	cpi, _ := cat.Get("cpi")
	v, _ := cpi.(*stat.Scalar).Value(cpu1)
	assert.True(t, v.IsInfinite())

	sim, _ := cat.Get("simSeconds")
	assert.True(t, sim.Parents()[0] == root)

	_, ok = cat.Get("fetch.width")
	assert.False(t, ok)

	unknown := logs.FilterMessage("skipping entry of unknown type").All()
	assert.Equal(t, 1, len(unknown))
	assert.Equal(t, "Vector", unknown[0].ContextMap()["type"])

	got := collector.GetStats()
	assert.Equal(t, int64(5), got.Total(stats.RecordsIngested))
	assert.Equal(t, int64(2), got.Total(stats.RecordsSkipped))
	assert.Equal(t, int64(3), got.Total(stats.NodesCreated))
}

func TestWalker_VariantConflict(t *testing.T) {
	tree := map[string]any{
		"a": map[string]any{"type": "Group", "x": scalarEntry("x", 1)},
		"b": map[string]any{
			"type": "Group",
			"x": map[string]any{
				"type": "Distribution", "name": "x",
				"value": []any{1}, "num_bins": 1, "bin_size": 1, "min": 0,
			},
		},
	}

	_, _, err := NewWalker(nil).Run(stat.Index{}, tree)
	assert.True(t, errors.Is(err, sentinel.ErrWrongVariant))
}

func TestWalker_NonNumericScalarIsMissing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	collector := stats.NewHistogramStatsCollector()
	w := NewWalker(hierarchy.NewArena(), WithLogger(zap.New(core)), WithCollector(collector))

	tree := map[string]any{
		"cpu0": map[string]any{"type": "Group", "ipc": scalarEntry("ipc", "N/A")},
		"cpu1": map[string]any{"type": "Group", "ipc": scalarEntry("ipc", 2)},
	}

	root, cat, err := w.Run(stat.Index{}, tree)
	assert.NoError(t, err)

	s, ok := cat.Get("ipc")
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())

	cpu0, _ := hierarchy.Find(root, "cpu0")
	v, _ := s.(*stat.Scalar).Value(cpu0)
	assert.True(t, v.IsMissing())

	warned := logs.FilterMessage("non-numeric value stored as missing").All()
	assert.Equal(t, 1, len(warned))
	assert.Equal(t, "cpu0", warned[0].ContextMap()["owner"])

	got := collector.GetStats()
	assert.Equal(t, int64(2), got.Total(stats.RecordsIngested))
	assert.Equal(t, int64(1), got.Total(stats.Warnings))
}

func TestWalker_MalformedDistribution(t *testing.T) {
	tree := map[string]any{
		"latency": map[string]any{
			"type": "Distribution", "name": "latency",
			"value": []any{1, 2}, "num_bins": 3, "bin_size": 10, "min": 0,
		},
	}

	_, _, err := NewWalker(nil).Run(stat.Index{}, tree)
	assert.True(t, errors.Is(err, sentinel.ErrMalformedRecord))
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		check   func(t *testing.T, rec stat.Record)
		wantErr error
	}{
		{
			name: "scalar from string",
			raw:  scalarEntry("ipc", "1.5"),
			check: func(t *testing.T, rec stat.Record) {
				f, ok := rec.Value.Float()
				assert.True(t, ok)
				assert.Equal(t, 1.5, f)
			},
		},
		{
			name: "nan is missing",
			raw:  scalarEntry("ipc", math.NaN()),
			check: func(t *testing.T, rec stat.Record) {
				assert.True(t, rec.Value.IsMissing())
			},
		},
		{
			name: "name defaults to key",
			raw:  map[string]any{"type": "Scalar", "value": 3},
			check: func(t *testing.T, rec stat.Record) {
				assert.Equal(t, "ipc", rec.Name)
			},
		},
		{
			name: "distribution",
			raw: map[string]any{
				"type": "Distribution", "name": "ipc",
				"value": []any{uint8(1), int64(2)}, "num_bins": 2.0, "bin_size": "5", "min": -10,
			},
			check: func(t *testing.T, rec stat.Record) {
				assert.Equal(t, []float64{1, 2}, rec.Counts)
				assert.Equal(t, 2, rec.NumBins)
				assert.Equal(t, int64(5), rec.BinSize)
				assert.Equal(t, int64(-10), rec.Min)
			},
		},
		{
			name: "not a number is missing",
			raw:  scalarEntry("ipc", "N/A"),
			check: func(t *testing.T, rec stat.Record) {
				assert.True(t, rec.Value.IsMissing())
			},
		},
		{
			name: "empty string is missing",
			raw:  scalarEntry("ipc", ""),
			check: func(t *testing.T, rec stat.Record) {
				assert.True(t, rec.Value.IsMissing())
			},
		},
		{
			name: "list is missing",
			raw:  scalarEntry("ipc", []any{1}),
			check: func(t *testing.T, rec stat.Record) {
				assert.True(t, rec.Value.IsMissing())
			},
		},
		{
			name:    "counts not a list",
			raw:     map[string]any{"type": "Distribution", "value": "1,2"},
			wantErr: sentinel.ErrMalformedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord("ipc", tt.raw)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))

				return
			}

			assert.NoError(t, err)
			tt.check(t, rec)
		})
	}
}

func TestCatalog_Lookup(t *testing.T) {
	cat := NewCatalog(stat.Index{"cpu": "o3"})

	_, err := cat.Lookup("ipc")
	assert.True(t, errors.Is(err, sentinel.ErrStatNotFound))

	s, err := cat.getOrCreate("ipc", stat.VariantScalar)
	assert.NoError(t, err)

	again, err := cat.getOrCreate("ipc", stat.VariantScalar)
	assert.NoError(t, err)
	assert.True(t, s == again)

	found, err := cat.Lookup("ipc")
	assert.NoError(t, err)
	assert.True(t, found == s)
	assert.Equal(t, 1, cat.Len())
}
