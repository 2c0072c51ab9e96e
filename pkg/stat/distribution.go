package stat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
)

// Distribution holds one histogram per owner. Widths and offsets may differ
// between owners; within one histogram all buckets have the same width.
type Distribution struct {
	header
	owners[Histogram]
}

// NewDistribution returns an empty distribution.
func NewDistribution(index Index, name string) *Distribution {
	return &Distribution{
		header: header{index: index, name: name},
		owners: newOwners[Histogram](),
	}
}

func (*Distribution) operand() {}

// Variant returns VariantDistribution.
func (*Distribution) Variant() Variant { return VariantDistribution }

// Parents returns a copy of the owners in first-insertion order.
func (d *Distribution) Parents() []*hierarchy.Node { return slices.Clone(d.parents) }

// Len returns the number of owners.
func (d *Distribution) Len() int { return len(d.parents) }

// Owners returns the owner set.
func (d *Distribution) Owners() OwnerSet { return d.ownerSet() }

// Histogram returns a copy of the histogram recorded for owner.
func (d *Distribution) Histogram(owner *hierarchy.Node) (Histogram, bool) {
	h, ok := d.get(owner)

	return h.Clone(), ok
}

// Each calls fn for every owner in parent order. fn must not modify h.
func (d *Distribution) Each(fn func(owner *hierarchy.Node, h Histogram)) {
	for _, p := range d.parents {
		fn(p, d.values[p.Key()])
	}
}

// With returns a copy of d that also holds h for owner.
func (d *Distribution) With(owner *hierarchy.Node, h Histogram) *Distribution {
	out := d.derive(d.clone())
	out.set(owner, h)

	return out
}

// ProcessRecord rebuilds the equal-width buckets described by rec for owner.
func (d *Distribution) ProcessRecord(owner *hierarchy.Node, name string, rec Record) error {
	err := d.checkRecord(name, rec)
	if err != nil {
		return err
	}

	if rec.NumBins != len(rec.Counts) {
		return ewrap.Wrapf(sentinel.ErrMalformedRecord, "%s: num_bins %d, got %d counts", name, rec.NumBins, len(rec.Counts))
	}

	if rec.BinSize <= 0 {
		return ewrap.Wrapf(sentinel.ErrMalformedRecord, "%s: bin_size %d", name, rec.BinSize)
	}

	h, err := NewHistogram(rec.Min, rec.BinSize, rec.Counts)
	if err != nil {
		return ewrap.Wrap(err, name)
	}

	d.set(owner, h)

	return nil
}

// FilterOwners keeps the owners in include, or the owners not in exclude.
func (d *Distribution) FilterOwners(include, exclude OwnerSet) (Stat, error) {
	err := checkFilter(include, exclude)
	if err != nil {
		return nil, err
	}

	return d.derive(d.filter(func(p *hierarchy.Node, _ Histogram) bool {
		return keepOwner(include, exclude, p)
	})), nil
}

// DropUnavailable returns an equivalent copy: histogram entries are never missing.
func (d *Distribution) DropUnavailable() Stat {
	return d.derive(d.clone())
}

// AggregateWith reduces the distribution with agg.
func (d *Distribution) AggregateWith(agg Aggregator) (Stat, error) {
	return aggregateWith(d, agg)
}

// String returns a readable form of the distribution.
func (d *Distribution) String() string {
	parts := make([]string, 0, len(d.parents))
	for _, p := range d.parents {
		parts = append(parts, fmt.Sprintf("%s: %v", p.Path(), d.values[p.Key()]))
	}

	return fmt.Sprintf("Distribution(name: %s, value: {%s})", d.name, strings.Join(parts, ", "))
}

func (d *Distribution) derive(o owners[Histogram]) *Distribution {
	return &Distribution{
		header: header{index: d.index, name: d.name},
		owners: o,
	}
}
