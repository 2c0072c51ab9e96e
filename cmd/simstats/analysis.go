package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/hyp3rd/simstats"
	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/stat"
)

// Analysis describes the runs to ingest and what to compute from them.
type Analysis struct {
	// Format is the dump format used by runs that do not name one.
	Format       string        `yaml:"format"`
	Runs         []RunSpec     `yaml:"runs"`
	Aggregations []Aggregation `yaml:"aggregations"`
	Layouts      []LayoutSpec  `yaml:"layouts"`
}

// RunSpec points at the dump of one run.
type RunSpec struct {
	Index  stat.Index `yaml:"index"`
	File   string     `yaml:"file"`
	Format string     `yaml:"format"`
}

// Aggregation reduces one stat of every run with one aggregator.
type Aggregation struct {
	Stat       string `yaml:"stat"`
	Aggregator string `yaml:"aggregator"`
}

// LayoutSpec lays out one scalar across runs. A nil Mapping is inferred.
type LayoutSpec struct {
	Stat    string            `yaml:"stat"`
	Mapping map[string]string `yaml:"mapping"`
}

// LoadAnalysis reads an analysis file. Relative dump paths are resolved
// against the directory of the file.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ewrap.Wrapf(err, "reading analysis %s", path)
	}

	var a Analysis

	err = yaml.Unmarshal(data, &a)
	if err != nil {
		return nil, ewrap.Wrapf(err, "parsing analysis %s", path)
	}

	dir := filepath.Dir(path)
	for i := range a.Runs {
		if a.Runs[i].File != "" && !filepath.IsAbs(a.Runs[i].File) {
			a.Runs[i].File = filepath.Join(dir, a.Runs[i].File)
		}
	}

	return &a, a.validate()
}

func (a *Analysis) validate() error {
	if len(a.Runs) == 0 {
		return ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "runs")
	}

	for i, r := range a.Runs {
		if r.File == "" {
			return ewrap.Wrapf(sentinel.ErrParamCannotBeEmpty, "file of run %d", i)
		}
	}

	for i, agg := range a.Aggregations {
		if agg.Stat == "" || agg.Aggregator == "" {
			return ewrap.Wrapf(sentinel.ErrParamCannotBeEmpty, "stat and aggregator of aggregation %d", i)
		}
	}

	for i, l := range a.Layouts {
		if l.Stat == "" {
			return ewrap.Wrapf(sentinel.ErrParamCannotBeEmpty, "stat of layout %d", i)
		}
	}

	return nil
}

// Dumps reads the dump file of every run.
func (a *Analysis) Dumps() ([]simstats.Dump, error) {
	dumps := make([]simstats.Dump, 0, len(a.Runs))

	for _, r := range a.Runs {
		data, err := os.ReadFile(r.File)
		if err != nil {
			return nil, ewrap.Wrapf(err, "reading dump of run %s", r.Index)
		}

		format := r.Format
		if format == "" {
			format = a.Format
		}

		if format == "" {
			format = formatFromExt(r.File)
		}

		dumps = append(dumps, simstats.Dump{Index: r.Index, Format: format, Data: data})
	}

	return dumps, nil
}

// formatFromExt guesses a dump format from a file extension, or returns ""
// to use the engine default.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return constants.FormatYAML
	case ".msgpack", ".mp":
		return constants.FormatMsgpack
	case ".cbor":
		return constants.FormatCBOR
	case ".json":
		return constants.FormatJSON
	default:
		return ""
	}
}

// parseIndex parses "k1=v1,k2=v2" into an index.
func parseIndex(s string) (stat.Index, error) {
	index := stat.Index{}
	if s == "" {
		return index, nil
	}

	for pair := range strings.SplitSeq(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, ewrap.Newf("invalid index pair %q, want key=value", pair)
		}

		index[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return index, nil
}
