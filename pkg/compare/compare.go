// Package compare provides the two extremal sentinels used to seed min/max folds
// over collections that may be empty or heterogeneous.
package compare

import "cmp"

// Extreme is a value that compares below or above everything else.
type Extreme uint8

const (
	// Smallest is less than every value.
	Smallest Extreme = iota + 1
	// Biggest is greater than every value.
	Biggest
)

// Less reports whether e is less than other.
// Smallest is less than everything, including Biggest; Biggest is less than nothing.
func (e Extreme) Less(other any) bool {
	if o, ok := other.(Extreme); ok && o == e {
		return false
	}

	return e == Smallest
}

// Greater reports whether e is greater than other.
func (e Extreme) Greater(other any) bool {
	if o, ok := other.(Extreme); ok && o == e {
		return false
	}

	return e == Biggest
}

// Equal reports whether other is the same sentinel.
func (e Extreme) Equal(other any) bool {
	o, ok := other.(Extreme)

	return ok && o == e
}

// String returns the name of the sentinel.
func (e Extreme) String() string {
	switch e {
	case Smallest:
		return "Smallest"
	case Biggest:
		return "Biggest"
	}

	return "unknown"
}

// Bound is the running result of a min or max fold.
// Until a concrete value is folded in, it holds one of the sentinels.
type Bound[T cmp.Ordered] struct {
	value    T
	sentinel Extreme
}

// Lowest returns a bound seeded with Smallest, the seed of a max fold.
func Lowest[T cmp.Ordered]() Bound[T] {
	return Bound[T]{sentinel: Smallest}
}

// Highest returns a bound seeded with Biggest, the seed of a min fold.
func Highest[T cmp.Ordered]() Bound[T] {
	return Bound[T]{sentinel: Biggest}
}

// Of returns a bound holding v.
func Of[T cmp.Ordered](v T) Bound[T] {
	return Bound[T]{value: v}
}

// Min returns the smaller of b and v.
func (b Bound[T]) Min(v T) Bound[T] {
	switch b.sentinel {
	case Smallest:
		return b
	case Biggest:
		return Of(v)
	}

	if v < b.value {
		return Of(v)
	}

	return b
}

// Max returns the larger of b and v.
func (b Bound[T]) Max(v T) Bound[T] {
	switch b.sentinel {
	case Biggest:
		return b
	case Smallest:
		return Of(v)
	}

	if v > b.value {
		return Of(v)
	}

	return b
}

// Value returns the folded value. ok is false while b still holds a sentinel.
func (b Bound[T]) Value() (v T, ok bool) {
	if b.sentinel != 0 {
		return v, false
	}

	return b.value, true
}

// Sentinel returns the sentinel held by b, or 0 once a value was folded in.
func (b Bound[T]) Sentinel() Extreme {
	return b.sentinel
}
