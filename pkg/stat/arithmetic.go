package stat

import (
	"fmt"
	"math"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
)

// Operator is one of the binary operations supported on scalars.
type Operator string

// Supported operators, named by their symbol.
const (
	OpAdd      Operator = "+"
	OpSub      Operator = "-"
	OpMul      Operator = "*"
	OpDiv      Operator = "/"
	OpFloorDiv Operator = "//"
	OpPow      Operator = "**"
	OpMod      Operator = "%"
)

// apply computes a op b. Division, floor division and modulo by zero return
// the infinite marker. A missing operand yields missing, an infinite one
// yields infinite.
func (op Operator) apply(a, b Value) Value {
	switch {
	case a.IsMissing() || b.IsMissing():
		return Missing()
	case a.IsInfinite() || b.IsInfinite():
		return Infinite()
	}

	x, y := a.num, b.num

	var r float64

	switch op {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv:
		if y == 0 {
			return Infinite()
		}

		r = x / y
	case OpFloorDiv:
		if y == 0 {
			return Infinite()
		}

		r = math.Floor(x / y)
	case OpPow:
		r = math.Pow(x, y)
	case OpMod:
		if y == 0 {
			return Infinite()
		}
		// result takes the sign of the divisor
		r = math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
	default:
		return Missing()
	}

	return FromFloat(r)
}

// Add returns s + other.
func (s *Scalar) Add(other Operand) (Stat, error) { return s.binary(OpAdd, other) }

// Sub returns s - other.
func (s *Scalar) Sub(other Operand) (Stat, error) { return s.binary(OpSub, other) }

// Mul returns s * other.
func (s *Scalar) Mul(other Operand) (Stat, error) { return s.binary(OpMul, other) }

// Div returns s / other. Owners divided by zero hold the infinite marker.
func (s *Scalar) Div(other Operand) (Stat, error) { return s.binary(OpDiv, other) }

// FloorDiv returns floor(s / other). Owners divided by zero hold the infinite marker.
func (s *Scalar) FloorDiv(other Operand) (Stat, error) { return s.binary(OpFloorDiv, other) }

// Pow returns s raised to other.
func (s *Scalar) Pow(other Operand) (Stat, error) { return s.binary(OpPow, other) }

// Mod returns s modulo other. Owners taken modulo zero hold the infinite marker.
func (s *Scalar) Mod(other Operand) (Stat, error) { return s.binary(OpMod, other) }

// binary applies op owner by owner. A Scalar operand must come from the same
// run and have the same owners; a Const is broadcast.
func (s *Scalar) binary(op Operator, other Operand) (Stat, error) {
	switch o := other.(type) {
	case Const:
		out := s.derive(fmt.Sprintf("(%s %s %s)", s.name, op, formatNumber(float64(o))), newOwners[Value]())
		s.Each(func(p *hierarchy.Node, v Value) {
			out.set(p, op.apply(v, Number(float64(o))))
		})

		return out, nil
	case *Scalar:
		if !s.index.Equal(o.index) {
			return nil, ewrap.Wrapf(sentinel.ErrIndexMismatch, "%s %s %s", s.name, op, o.name)
		}

		if !s.Owners().Equal(o.Owners()) {
			return nil, ewrap.Wrapf(sentinel.ErrOwnerMismatch, "%s %s %s", s.name, op, o.name)
		}

		out := s.derive(fmt.Sprintf("(%s %s %s)", s.name, op, o.name), newOwners[Value]())
		s.Each(func(p *hierarchy.Node, v Value) {
			w, _ := o.get(p)
			out.set(p, op.apply(v, w))
		})

		return out, nil
	case nil:
		return nil, ewrap.Wrapf(sentinel.ErrWrongVariant, "%s %s <nil>", s.name, op)
	}

	return nil, ewrap.Wrapf(sentinel.ErrWrongVariant, "a Scalar can only be combined with a Scalar or a number, got %T", other)
}

// Add is not supported on distributions.
func (d *Distribution) Add(Operand) (Stat, error) { return nil, d.unsupported(OpAdd) }

// Sub is not supported on distributions.
func (d *Distribution) Sub(Operand) (Stat, error) { return nil, d.unsupported(OpSub) }

// Mul is not supported on distributions.
func (d *Distribution) Mul(Operand) (Stat, error) { return nil, d.unsupported(OpMul) }

// Div is not supported on distributions.
func (d *Distribution) Div(Operand) (Stat, error) { return nil, d.unsupported(OpDiv) }

// FloorDiv is not supported on distributions.
func (d *Distribution) FloorDiv(Operand) (Stat, error) { return nil, d.unsupported(OpFloorDiv) }

// Pow is not supported on distributions.
func (d *Distribution) Pow(Operand) (Stat, error) { return nil, d.unsupported(OpPow) }

// Mod is not supported on distributions.
func (d *Distribution) Mod(Operand) (Stat, error) { return nil, d.unsupported(OpMod) }

func (d *Distribution) unsupported(op Operator) error {
	return ewrap.Wrapf(sentinel.ErrUnsupportedOperation, "%s on Distribution %q", op, d.name)
}
