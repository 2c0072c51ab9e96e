package stat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hyp3rd/simstats/pkg/hierarchy"
)

// Scalar holds one Value per owner.
type Scalar struct {
	header
	owners[Value]
}

// NewScalar returns an empty scalar.
func NewScalar(index Index, name string) *Scalar {
	return &Scalar{
		header: header{index: index, name: name},
		owners: newOwners[Value](),
	}
}

func (*Scalar) operand() {}

// Variant returns VariantScalar.
func (*Scalar) Variant() Variant { return VariantScalar }

// Parents returns a copy of the owners in first-insertion order.
func (s *Scalar) Parents() []*hierarchy.Node { return slices.Clone(s.parents) }

// Len returns the number of owners.
func (s *Scalar) Len() int { return len(s.parents) }

// Owners returns the owner set.
func (s *Scalar) Owners() OwnerSet { return s.ownerSet() }

// Value returns the value recorded for owner.
func (s *Scalar) Value(owner *hierarchy.Node) (Value, bool) { return s.get(owner) }

// Values returns a copy of the owner-path -> value map.
func (s *Scalar) Values() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}

	return out
}

// Numbers returns the numeric values in parent order, skipping markers.
func (s *Scalar) Numbers() []float64 {
	out := make([]float64, 0, len(s.parents))

	for _, p := range s.parents {
		if f, ok := s.values[p.Key()].Float(); ok {
			out = append(out, f)
		}
	}

	return out
}

// Each calls fn for every owner in parent order.
func (s *Scalar) Each(fn func(owner *hierarchy.Node, v Value)) {
	for _, p := range s.parents {
		fn(p, s.values[p.Key()])
	}
}

// With returns a copy of s that also holds v for owner. If owner is already
// present its value is replaced in place and the order is unchanged.
func (s *Scalar) With(owner *hierarchy.Node, v Value) *Scalar {
	out := s.derive(s.name, s.clone())
	out.set(owner, v)

	return out
}

// ProcessRecord stores the value of rec for owner.
func (s *Scalar) ProcessRecord(owner *hierarchy.Node, name string, rec Record) error {
	err := s.checkRecord(name, rec)
	if err != nil {
		return err
	}

	s.set(owner, rec.Value)

	return nil
}

// FilterOwners keeps the owners in include, or the owners not in exclude.
func (s *Scalar) FilterOwners(include, exclude OwnerSet) (Stat, error) {
	err := checkFilter(include, exclude)
	if err != nil {
		return nil, err
	}

	return s.derive(s.name, s.filter(func(p *hierarchy.Node, _ Value) bool {
		return keepOwner(include, exclude, p)
	})), nil
}

// DropUnavailable keeps only numeric owners. Missing and infinite markers are dropped.
func (s *Scalar) DropUnavailable() Stat {
	return s.DropNA()
}

// DropNA is DropUnavailable with the concrete return type.
func (s *Scalar) DropNA() *Scalar {
	return s.derive(s.name, s.filter(func(_ *hierarchy.Node, v Value) bool {
		return v.IsNumber()
	}))
}

// AggregateWith reduces the scalar with agg.
func (s *Scalar) AggregateWith(agg Aggregator) (Stat, error) {
	return aggregateWith(s, agg)
}

// String returns a readable form of the scalar.
func (s *Scalar) String() string {
	parts := make([]string, 0, len(s.parents))
	for _, p := range s.parents {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Path(), s.values[p.Key()]))
	}

	return fmt.Sprintf("Scalar(name: %s, value: {%s})", s.name, strings.Join(parts, ", "))
}

func (s *Scalar) derive(name string, o owners[Value]) *Scalar {
	return &Scalar{
		header: header{index: s.index, name: name},
		owners: o,
	}
}
