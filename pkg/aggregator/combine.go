package aggregator

import (
	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/compare"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
	"github.com/hyp3rd/simstats/pkg/stats"
)

// Combine merges the histograms of every owner of a Distribution into one
// histogram on a common grid.
//
// The grid starts at the lowest start, uses the widest bucket width seen and
// extends until it covers the highest end. Each source bucket is moved as a
// whole into the target bin it overlaps most; on a tie the lower bin wins.
// Frequencies are never split, so a source bucket straddling two bins makes
// the merge lossy.
type Combine struct {
	base
}

// NewCombine returns the histogram merge aggregator.
func NewCombine(owner *hierarchy.Node, env Env) stat.Aggregator {
	return &Combine{base: newBase(owner, env)}
}

// Aggregate returns a new Distribution holding the histograms of d plus the
// merged histogram under Owner.
func (c *Combine) Aggregate(s stat.Stat) (stat.Stat, error) {
	d, ok := s.(*stat.Distribution)
	if !ok {
		return nil, c.wrongVariant(stat.VariantDistribution, s)
	}

	merged, err := c.Merge(d)
	if err != nil {
		return nil, ewrap.Wrapf(err, "%s over %q", c.owner.Name(), d.Name())
	}

	c.collector.Incr(stats.Aggregations, 1)

	return d.With(c.owner, merged), nil
}

// Merge builds the unified histogram of d.
func (c *Combine) Merge(d *stat.Distribution) (stat.Histogram, error) {
	g, ok := gridOf(d)
	if !ok {
		return nil, sentinel.ErrEmptyAggregation
	}

	target, err := g.buckets()
	if err != nil {
		return nil, err
	}

	var (
		lossy    int
		mergeErr error
	)

	d.Each(func(owner *hierarchy.Node, h stat.Histogram) {
		if mergeErr != nil {
			return
		}

		for _, src := range h {
			idx, err := g.place(target, src)
			if err != nil {
				mergeErr = ewrap.Wrapf(err, "owner %s", owner.Path())

				return
			}

			isLossy, err := target[idx].CombineWith(src)
			if err != nil {
				mergeErr = ewrap.Wrapf(err, "owner %s", owner.Path())

				return
			}

			if isLossy {
				lossy++

				c.warn("lossy bucket merge",
					zap.String("stat", d.Name()),
					zap.String("owner", owner.Path()),
					zap.Stringer("source", src),
					zap.Stringer("target", target[idx]),
				)
			}
		}
	})

	if mergeErr != nil {
		return nil, mergeErr
	}

	if lossy > 0 {
		c.collector.Incr(stats.LossyMerges, int64(lossy))
	}

	return target, nil
}

// grid is the common bucketing every source histogram is merged onto.
type grid struct {
	start   int64
	end     int64
	binSize int64
	numBins int64
}

// gridOf derives the grid from the non-empty histograms of d.
// ok is false when every histogram is empty.
func gridOf(d *stat.Distribution) (grid, bool) {
	minStart := compare.Highest[int64]()
	maxEnd := compare.Lowest[int64]()
	binSize := compare.Lowest[int64]()

	d.Each(func(_ *hierarchy.Node, h stat.Histogram) {
		if len(h) == 0 {
			return
		}

		minStart = minStart.Min(h.Start())
		maxEnd = maxEnd.Max(h.End())
		binSize = binSize.Max(h.Width())
	})

	start, ok := minStart.Value()
	if !ok {
		return grid{}, false
	}

	end, _ := maxEnd.Value()
	size, _ := binSize.Value()

	return grid{
		start:   start,
		end:     end,
		binSize: size,
		numBins: ceilDiv(end-start, size),
	}, true
}

// buckets allocates the zero-frequency target bins.
func (g grid) buckets() (stat.Histogram, error) {
	return stat.NewHistogram(g.start, g.binSize, make([]float64, g.numBins))
}

// place returns the index of the target bin src is merged into.
func (g grid) place(target stat.Histogram, src stat.Bucket) (int, error) {
	i0 := (src.LowerBound() - g.start) / g.binSize
	i1 := min(g.numBins-1, (src.UpperBound()-g.start)/g.binSize)

	if i0 < 0 || i0 >= g.numBins || i1-i0 > 1 {
		return 0, ewrap.Wrapf(sentinel.ErrUnplaceableBucket, "%s on bins %d..%d", src, i0, i1)
	}

	overlap0 := src.OverlapSize(target[i0])
	overlap1 := src.OverlapSize(target[i1])

	if overlap0 == 0 && overlap1 == 0 {
		return 0, ewrap.Wrapf(sentinel.ErrUnplaceableBucket, "%s overlaps neither %s nor %s", src, target[i0], target[i1])
	}

	if overlap1 > overlap0 {
		return int(i1), nil
	}

	return int(i0), nil
}

// ceilDiv returns ceil(a / b) for a >= 0 and b > 0.
func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
