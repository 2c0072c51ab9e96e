package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
)

const o3Dump = `{
  "cpu0": {
    "type": "Group",
    "ipc": {"type": "Scalar", "name": "ipc", "value": 2},
    "latency": {"type": "Distribution", "name": "latency", "value": [1, 2, 4], "num_bins": 3, "bin_size": 10, "min": 0}
  },
  "cpu1": {
    "type": "Group",
    "ipc": {"type": "Scalar", "name": "ipc", "value": 4},
    "latency": {"type": "Distribution", "name": "latency", "value": [8, 16], "num_bins": 2, "bin_size": 20, "min": 10}
  }
}`

const minorDump = `
cpu0:
  type: Group
  ipc: {type: Scalar, name: ipc, value: 1}
cpu1:
  type: Group
  ipc: {type: Scalar, name: ipc, value: 3}
`

const analysisFile = `
runs:
  - index: {cpu: o3}
    file: o3.json
  - index: {cpu: minor}
    file: minor.yaml
aggregations:
  - {stat: ipc, aggregator: mean}
  - {stat: latency, aggregator: combine}
layouts:
  - stat: ipc
    mapping: {cpu: group, parent: subgroup}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	return dir
}

func TestLoadAnalysis(t *testing.T) {
	dir := writeFiles(t, map[string]string{"analysis.yaml": analysisFile})

	a, err := LoadAnalysis(filepath.Join(dir, "analysis.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, 2, len(a.Runs))
	assert.True(t, a.Runs[0].Index.Equal(stat.Index{"cpu": "o3"}))
	assert.Equal(t, filepath.Join(dir, "o3.json"), a.Runs[0].File)
	assert.Equal(t, 2, len(a.Aggregations))
	assert.Equal(t, constants.AggregatorCombine, a.Aggregations[1].Aggregator)
	assert.Equal(t, "subgroup", a.Layouts[0].Mapping["parent"])
}

func TestLoadAnalysis_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no runs", content: "aggregations: [{stat: ipc, aggregator: sum}]"},
		{name: "run without file", content: "runs: [{index: {cpu: o3}}]"},
		{name: "aggregation without aggregator", content: "runs: [{file: a.json}]\naggregations: [{stat: ipc}]"},
		{name: "layout without stat", content: "runs: [{file: a.json}]\nlayouts: [{mapping: {cpu: hue}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"analysis.yaml": tt.content})

			_, err := LoadAnalysis(filepath.Join(dir, "analysis.yaml"))
			assert.True(t, errors.Is(err, sentinel.ErrParamCannotBeEmpty))
		})
	}
}

func TestAnalyze(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"analysis.yaml": analysisFile,
		"o3.json":       o3Dump,
		"minor.yaml":    minorDump,
	})

	a, err := LoadAnalysis(filepath.Join(dir, "analysis.yaml"))
	assert.NoError(t, err)

	report, err := Analyze(context.Background(), simstats.New(), a)
	assert.NoError(t, err)

	assert.Equal(t, 2, len(report.Runs))
	assert.Equal(t, 4, len(report.Aggregations))

	mean := report.Aggregations[0]
	assert.Equal(t, "cpu=o3", mean.Run)
	f, _ := mean.Value.Float()
	assert.Equal(t, 3.0, f)

	f, _ = report.Aggregations[1].Value.Float()
	assert.Equal(t, 2.0, f)

	combined := report.Aggregations[2]
	assert.Equal(t, int64(0), combined.Histogram.Start)
	assert.Equal(t, int64(10), combined.Histogram.BinSize)
	assert.Equal(t, []float64{11, 20, 0}, combined.Histogram.Frequencies)

	// the minor run has no latency
	assert.True(t, report.Aggregations[3].Histogram == nil)
	assert.True(t, strings.Contains(report.Aggregations[3].Error, "latency"))

	assert.Equal(t, 1, len(report.Layouts))
	assert.Equal(t, "subgroup=parent,group=cpu", report.Layouts[0].Mapping)
	assert.Equal(t, 4, len(report.Layouts[0].Bars))
	assert.Equal(t, "#FF8C00", report.Layouts[0].Bars[0].Color)
}

// ownerFirst returns aggregation results whose aggregator owner comes before
// the other owners.
type ownerFirst struct {
	simstats.Service
}

func (s ownerFirst) Aggregate(ctx context.Context, index stat.Index, _, kind string) (stat.Stat, error) {
	agg, err := s.Aggregator(ctx, kind)
	if err != nil {
		return nil, err
	}

	arena := hierarchy.NewArena()
	out := stat.NewScalar(index, "ipc").
		With(agg.Owner(), stat.Number(7)).
		With(arena.NewNode("cpu0", "cpu0"), stat.Number(1))

	return out, nil
}

func TestAggregate_ReadsAggregatorOwner(t *testing.T) {
	svc := ownerFirst{Service: simstats.New()}

	res, err := aggregate(context.Background(), svc, stat.Index{"cpu": "o3"}, Aggregation{Stat: "ipc", Aggregator: constants.AggregatorMean})
	assert.NoError(t, err)

	f, _ := res.Value.Float()
	assert.Equal(t, 7.0, f)
}

func TestAnalyze_MissingDump(t *testing.T) {
	dir := writeFiles(t, map[string]string{"analysis.yaml": analysisFile})

	a, err := LoadAnalysis(filepath.Join(dir, "analysis.yaml"))
	assert.NoError(t, err)

	_, err = Analyze(context.Background(), simstats.New(), a)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseIndex(t *testing.T) {
	index, err := parseIndex("cpu=o3, workload=bfs")
	assert.NoError(t, err)
	assert.True(t, index.Equal(stat.Index{"cpu": "o3", "workload": "bfs"}))

	index, err = parseIndex("")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(index))

	_, err = parseIndex("cpu")
	assert.False(t, err == nil)
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, constants.FormatYAML, formatFromExt("stats.YML"))
	assert.Equal(t, constants.FormatCBOR, formatFromExt("stats.cbor"))
	assert.Equal(t, "", formatFromExt("stats.txt"))
}

func TestPrintCatalog(t *testing.T) {
	engine := simstats.New()

	catalog, err := engine.Ingest(context.Background(), simstats.Dump{Index: stat.Index{"cpu": "o3"}, Data: []byte(o3Dump)})
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, printCatalog(&buf, catalog))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[1], "ipc"))
	assert.True(t, strings.Contains(lines[2], "Distribution"))
}
