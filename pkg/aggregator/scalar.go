package aggregator

import (
	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	gonumstat "gonum.org/v1/gonum/stat"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/compare"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// reduceFunc collapses the numeric values of a scalar into one number.
type reduceFunc func(values []float64) (float64, error)

// ScalarReducer applies a reduction to the numeric owners of a Scalar.
type ScalarReducer struct {
	base
	reduce reduceFunc
}

// NewSum returns the summation aggregator. The sum of no values is 0.
func NewSum(owner *hierarchy.Node, env Env) stat.Aggregator {
	return &ScalarReducer{base: newBase(owner, env), reduce: sum}
}

// NewArithmeticMean returns the arithmetic mean aggregator.
func NewArithmeticMean(owner *hierarchy.Node, env Env) stat.Aggregator {
	return &ScalarReducer{base: newBase(owner, env), reduce: mean}
}

// NewGeometricMean returns the geometric mean aggregator. Negative values are rejected.
func NewGeometricMean(owner *hierarchy.Node, env Env) stat.Aggregator {
	return &ScalarReducer{base: newBase(owner, env), reduce: geometricMean}
}

// NewMin returns the minimum aggregator.
func NewMin(owner *hierarchy.Node, env Env) stat.Aggregator {
	return &ScalarReducer{base: newBase(owner, env), reduce: minimum}
}

// NewMax returns the maximum aggregator.
func NewMax(owner *hierarchy.Node, env Env) stat.Aggregator {
	return &ScalarReducer{base: newBase(owner, env), reduce: maximum}
}

// Aggregate drops the unavailable owners of s, reduces the rest and returns a
// new Scalar holding the surviving owners plus the result under Owner.
func (r *ScalarReducer) Aggregate(s stat.Stat) (stat.Stat, error) {
	sc, ok := s.(*stat.Scalar)
	if !ok {
		return nil, r.wrongVariant(stat.VariantScalar, s)
	}

	nona := sc.DropNA()
	dropped := sc.Len() - nona.Len()

	r.warn("unavailable values are dropped before aggregating",
		zap.String("stat", sc.Name()),
		zap.Int("dropped", dropped),
	)

	if dropped > 0 {
		r.collector.Incr(stats.ValuesDropped, int64(dropped))
	}

	result, err := r.reduce(nona.Numbers())
	if err != nil {
		return nil, ewrap.Wrapf(err, "%s over %q", r.owner.Name(), sc.Name())
	}

	r.collector.Incr(stats.Aggregations, 1)

	return nona.With(r.owner, stat.FromFloat(result)), nil
}

func sum(values []float64) (float64, error) {
	return floats.Sum(values), nil
}

func mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, sentinel.ErrEmptyAggregation
	}

	return gonumstat.Mean(values, nil), nil
}

func geometricMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, sentinel.ErrEmptyAggregation
	}

	for _, v := range values {
		if v < 0 {
			return 0, ewrap.Wrapf(sentinel.ErrDomain, "geometric mean of %v", v)
		}
	}

	return gonumstat.GeometricMean(values, nil), nil
}

func minimum(values []float64) (float64, error) {
	b := compare.Highest[float64]()
	for _, v := range values {
		b = b.Min(v)
	}

	v, ok := b.Value()
	if !ok {
		return 0, sentinel.ErrEmptyAggregation
	}

	return v, nil
}

func maximum(values []float64) (float64, error) {
	b := compare.Lowest[float64]()
	for _, v := range values {
		b = b.Max(v)
	}

	v, ok := b.Value()
	if !ok {
		return 0, sentinel.ErrEmptyAggregation
	}

	return v, nil
}
