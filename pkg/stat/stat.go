// Package stat implements the statistics data model: named measurements indexed
// by run configuration that carry one value per owner node.
//
// Two variants exist. A Scalar holds a single number (or a marker) per owner;
// a Distribution holds a histogram per owner. Both implement Stat. Every
// transformation returns a new stat and leaves its receiver untouched.
package stat

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
)

// Variant names the concrete kind of a stat.
type Variant string

const (
	// VariantScalar is the variant of *Scalar.
	VariantScalar Variant = "Scalar"
	// VariantDistribution is the variant of *Distribution.
	VariantDistribution Variant = "Distribution"
)

// String returns the string representation of the Variant.
func (v Variant) String() string {
	return string(v)
}

// Aggregator reduces a stat across its owners. Its owner node becomes the
// synthetic owner holding the reduced value in the result.
type Aggregator interface {
	// Owner returns the synthetic owner node of the aggregator.
	Owner() *hierarchy.Node
	// Aggregate returns a new stat with the reduction added under Owner.
	Aggregate(s Stat) (Stat, error)
}

// Operand is the right-hand side of an arithmetic operation:
// either a stat or a Const.
type Operand interface {
	operand()
}

// Const is a plain number broadcast over every owner.
type Const float64

func (Const) operand() {}

// Stat is the capability set shared by Scalar and Distribution.
type Stat interface {
	Operand

	// Variant returns the concrete kind of the stat.
	Variant() Variant
	// Index returns the run the stat belongs to.
	Index() Index
	// Name returns the stat name.
	Name() string
	// Parents returns the owners in first-insertion order.
	Parents() []*hierarchy.Node
	// Len returns the number of owners.
	Len() int
	// Owners returns the owner set.
	Owners() OwnerSet

	// ProcessRecord ingests the record emitted by owner under name.
	ProcessRecord(owner *hierarchy.Node, name string, rec Record) error
	// FilterOwners keeps the owners in include, or the owners not in exclude.
	// At most one of the sets may be non-empty.
	FilterOwners(include, exclude OwnerSet) (Stat, error)
	// DropUnavailable keeps the owners whose value is available.
	DropUnavailable() Stat
	// AggregateWith reduces the stat with agg.
	AggregateWith(agg Aggregator) (Stat, error)

	Add(other Operand) (Stat, error)
	Sub(other Operand) (Stat, error)
	Mul(other Operand) (Stat, error)
	Div(other Operand) (Stat, error)
	FloorDiv(other Operand) (Stat, error)
	Pow(other Operand) (Stat, error)
	Mod(other Operand) (Stat, error)

	String() string
}

// header holds what both variants share.
type header struct {
	index Index
	name  string
}

// Index returns the run the stat belongs to.
func (h header) Index() Index { return h.index }

// Name returns the stat name.
func (h header) Name() string { return h.name }

func (h header) checkRecord(name string, rec Record) error {
	if name != h.name || rec.Name != name {
		return ewrap.Wrapf(sentinel.ErrRecordNameMismatch, "stat %q, key %q, record %q", h.name, name, rec.Name)
	}

	return nil
}

// checkFilter rejects a request with both sets non-empty.
func checkFilter(include, exclude OwnerSet) error {
	if len(include) > 0 && len(exclude) > 0 {
		return ewrap.Wrap(sentinel.ErrAmbiguousFilter, "filter owners")
	}

	return nil
}

// keepOwner decides membership for FilterOwners. With both sets empty nothing is kept.
func keepOwner(include, exclude OwnerSet, owner *hierarchy.Node) bool {
	switch {
	case len(include) > 0:
		return include.Has(owner)
	case len(exclude) > 0:
		return !exclude.Has(owner)
	}

	return false
}

func aggregateWith(s Stat, agg Aggregator) (Stat, error) {
	out, err := agg.Aggregate(s)
	if err != nil {
		return nil, err
	}

	if out.Variant() != s.Variant() {
		return nil, ewrap.Wrapf(sentinel.ErrWrongVariant, "%s returned %s for %s", agg.Owner().Name(), out.Variant(), s.Variant())
	}

	return out, nil
}
