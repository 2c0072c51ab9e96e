package stat

import (
	"math"
	"strconv"
)

// valueKind tells a number apart from the two non-numeric markers.
type valueKind uint8

const (
	kindNumber valueKind = iota
	kindMissing
	kindInfinite
)

// Value is the payload a Scalar holds for one owner: a number, the missing
// marker (the raw record had no numeric value), or the infinite marker
// (the result of dividing by zero).
type Value struct {
	num  float64
	kind valueKind
}

// Number returns a numeric value.
func Number(f float64) Value { return Value{num: f} }

// Missing returns the missing marker.
func Missing() Value { return Value{kind: kindMissing} }

// Infinite returns the division-by-zero marker.
func Infinite() Value { return Value{kind: kindInfinite} }

// FromFloat maps NaN to the missing marker and either infinity to the
// infinite marker. Any other float becomes a number.
func FromFloat(f float64) Value {
	switch {
	case math.IsNaN(f):
		return Missing()
	case math.IsInf(f, 0):
		return Infinite()
	}

	return Number(f)
}

// Float returns the number held by v. ok is false for the markers.
func (v Value) Float() (f float64, ok bool) {
	return v.num, v.kind == kindNumber
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// IsInfinite reports whether v is the division-by-zero marker.
func (v Value) IsInfinite() bool { return v.kind == kindInfinite }

// String formats the value; markers render as "nan" and "inf".
func (v Value) String() string {
	switch v.kind {
	case kindMissing:
		return "nan"
	case kindInfinite:
		return "inf"
	}

	return formatNumber(v.num)
}

// MarshalJSON renders numbers as JSON numbers and markers as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind != kindNumber || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return strconv.AppendQuote(nil, v.String()), nil
	}

	return strconv.AppendFloat(nil, v.num, 'g', -1, 64), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
