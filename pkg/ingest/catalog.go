package ingest

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/stat"
)

// Catalog holds the stats of one run in first-seen order.
type Catalog struct {
	index stat.Index
	names []string
	stats map[string]stat.Stat
}

// NewCatalog returns an empty catalog for the run identified by index.
func NewCatalog(index stat.Index) *Catalog {
	return &Catalog{
		index: index,
		stats: make(map[string]stat.Stat),
	}
}

// Index returns the run the catalog belongs to.
func (c *Catalog) Index() stat.Index { return c.index }

// Len returns the number of stats.
func (c *Catalog) Len() int { return len(c.names) }

// Names returns the stat names in first-seen order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)

	return out
}

// Get returns the stat called name.
func (c *Catalog) Get(name string) (stat.Stat, bool) {
	s, ok := c.stats[name]

	return s, ok
}

// Lookup is Get with an error for unknown names.
func (c *Catalog) Lookup(name string) (stat.Stat, error) {
	s, ok := c.stats[name]
	if !ok {
		return nil, ewrap.Wrapf(sentinel.ErrStatNotFound, "%q in run %s", name, c.index)
	}

	return s, nil
}

// Scalars returns the scalar stats in first-seen order.
func (c *Catalog) Scalars() []*stat.Scalar {
	var out []*stat.Scalar

	for _, name := range c.names {
		if s, ok := c.stats[name].(*stat.Scalar); ok {
			out = append(out, s)
		}
	}

	return out
}

// Distributions returns the distribution stats in first-seen order.
func (c *Catalog) Distributions() []*stat.Distribution {
	var out []*stat.Distribution

	for _, name := range c.names {
		if d, ok := c.stats[name].(*stat.Distribution); ok {
			out = append(out, d)
		}
	}

	return out
}

// getOrCreate returns the stat called name, creating it with the given variant.
// A name already held by the other variant is rejected.
func (c *Catalog) getOrCreate(name string, variant stat.Variant) (stat.Stat, error) {
	if s, ok := c.stats[name]; ok {
		if s.Variant() != variant {
			return nil, ewrap.Wrapf(sentinel.ErrWrongVariant, "%q is a %s, record is a %s", name, s.Variant(), variant)
		}

		return s, nil
	}

	var s stat.Stat

	switch variant {
	case stat.VariantScalar:
		s = stat.NewScalar(c.index, name)
	case stat.VariantDistribution:
		s = stat.NewDistribution(c.index, name)
	default:
		return nil, ewrap.Wrapf(sentinel.ErrWrongVariant, "unknown variant %s", variant)
	}

	c.stats[name] = s
	c.names = append(c.names, name)

	return s, nil
}
