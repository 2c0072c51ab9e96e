package stat

import "github.com/hyp3rd/simstats/pkg/hierarchy"

// OwnerSet is a set of owner nodes keyed by path, so equal nodes collapse.
type OwnerSet map[string]*hierarchy.Node

// Owners builds a set from nodes.
func Owners(nodes ...*hierarchy.Node) OwnerSet {
	set := make(OwnerSet, len(nodes))
	for _, n := range nodes {
		set[n.Key()] = n
	}

	return set
}

// Has reports whether n (or a node equal to it) is in the set.
func (s OwnerSet) Has(n *hierarchy.Node) bool {
	_, ok := s[n.Key()]

	return ok
}

// Equal reports whether both sets hold the same paths.
func (s OwnerSet) Equal(other OwnerSet) bool {
	if len(s) != len(other) {
		return false
	}

	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}

	return true
}

// Intersect returns the owners present in both sets, taking nodes from s.
func (s OwnerSet) Intersect(other OwnerSet) OwnerSet {
	out := make(OwnerSet)

	for k, n := range s {
		if _, ok := other[k]; ok {
			out[k] = n
		}
	}

	return out
}

// owners is the ordered, path-keyed bookkeeping shared by both variants.
// parents and the keys of values move in lock-step.
type owners[V any] struct {
	values  map[string]V
	parents []*hierarchy.Node
}

func newOwners[V any]() owners[V] {
	return owners[V]{values: make(map[string]V)}
}

// set stores v for owner, appending owner to parents the first time only.
func (o *owners[V]) set(owner *hierarchy.Node, v V) {
	if _, ok := o.values[owner.Key()]; !ok {
		o.parents = append(o.parents, owner)
	}

	o.values[owner.Key()] = v
}

func (o *owners[V]) get(owner *hierarchy.Node) (V, bool) {
	v, ok := o.values[owner.Key()]

	return v, ok
}

// filter copies the entries for which keep returns true, preserving order.
func (o *owners[V]) filter(keep func(*hierarchy.Node, V) bool) owners[V] {
	out := newOwners[V]()

	for _, p := range o.parents {
		v := o.values[p.Key()]
		if keep(p, v) {
			out.set(p, v)
		}
	}

	return out
}

func (o *owners[V]) clone() owners[V] {
	return o.filter(func(*hierarchy.Node, V) bool { return true })
}

func (o *owners[V]) ownerSet() OwnerSet {
	return Owners(o.parents...)
}
