// Package ingest turns decoded statistics dumps into a hierarchy of owner
// nodes and a catalog of stats.
//
// A dump is a tree of entries. Each entry is a mapping whose "type" field is
// Group, Scalar or Distribution. Groups become nodes; scalars and distributions
// are recorded against the group that contains them. Keys holding the path
// separator name vector stats and are skipped.
package ingest

import (
	"maps"
	"slices"
	"strings"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Walker walks decoded dumps.
type Walker struct {
	arena     *hierarchy.Arena
	logger    *zap.Logger
	collector stats.ICollector
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithCollector sets the stats collector fed by the walker.
func WithCollector(collector stats.ICollector) Option {
	return func(w *Walker) {
		if collector != nil {
			w.collector = collector
		}
	}
}

// NewWalker returns a walker allocating nodes from arena.
func NewWalker(arena *hierarchy.Arena, opts ...Option) *Walker {
	if arena == nil {
		arena = hierarchy.NewArena()
	}

	w := &Walker{
		arena:     arena,
		logger:    zap.NewNop(),
		collector: stats.Discard{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run walks tree under a fresh root node and returns the root together with
// the catalog of the run identified by index.
func (w *Walker) Run(index stat.Index, tree map[string]any) (*hierarchy.Node, *Catalog, error) {
	root := w.arena.NewNode(constants.DefaultRootName, "")
	cat := NewCatalog(index)

	err := w.Walk(root, tree, cat)
	if err != nil {
		return nil, nil, err
	}

	return root, cat, nil
}

// Walk visits the entries of tree in key order. Groups become children of
// root and are walked recursively; stats are recorded in cat with root as owner.
func (w *Walker) Walk(root *hierarchy.Node, tree map[string]any, cat *Catalog) error {
	for _, key := range slices.Sorted(maps.Keys(tree)) {
		if strings.Contains(key, constants.PathSeparator) {
			w.collector.Incr(stats.RecordsSkipped, 1)

			continue
		}

		raw, ok := tree[key].(map[string]any)
		if !ok {
			continue
		}

		err := w.visit(root, key, raw, cat)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker) visit(root *hierarchy.Node, key string, raw map[string]any, cat *Catalog) error {
	switch t := recordType(raw); t {
	case constants.RecordGroup:
		child, err := w.arena.NewChild(root, key)
		if err != nil {
			return ewrap.Wrapf(err, "group %q", key)
		}

		w.collector.Incr(stats.NodesCreated, 1)

		return w.Walk(child, raw, cat)
	case constants.RecordScalar:
		return w.record(root, key, raw, cat, stat.VariantScalar)
	case constants.RecordDistribution:
		return w.record(root, key, raw, cat, stat.VariantDistribution)
	default:
		w.logger.Warn("skipping entry of unknown type",
			zap.String("owner", root.Path()),
			zap.String("key", key),
			zap.String("type", t),
		)
		w.collector.Incr(stats.Warnings, 1)
		w.collector.Incr(stats.RecordsSkipped, 1)

		return nil
	}
}

func (w *Walker) record(owner *hierarchy.Node, key string, raw map[string]any, cat *Catalog, variant stat.Variant) error {
	rec, coerced, err := parseRecord(key, raw)
	if err != nil {
		return ewrap.Wrapf(err, "owner %s", owner.Path())
	}

	if coerced {
		w.logger.Warn("non-numeric value stored as missing",
			zap.String("owner", owner.Path()),
			zap.String("key", key),
			zap.Any("value", raw[fieldValue]),
		)
		w.collector.Incr(stats.Warnings, 1)
	}

	s, err := cat.getOrCreate(key, variant)
	if err != nil {
		return ewrap.Wrapf(err, "owner %s", owner.Path())
	}

	err = s.ProcessRecord(owner, key, rec)
	if err != nil {
		return ewrap.Wrapf(err, "owner %s", owner.Path())
	}

	w.collector.Incr(stats.RecordsIngested, 1)

	return nil
}
