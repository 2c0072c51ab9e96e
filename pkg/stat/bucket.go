package stat

import (
	"fmt"
	"slices"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
)

// Bucket is one histogram bin [lower, upper) with a frequency count.
type Bucket struct {
	lower int64
	upper int64
	freq  float64
}

// NewBucket returns a bucket. lower must be below upper and freq non-negative.
func NewBucket(lower, upper int64, freq float64) (Bucket, error) {
	if lower >= upper || freq < 0 {
		return Bucket{}, ewrap.Wrapf(sentinel.ErrInvalidBucket, "[%d, %d) freq %v", lower, upper, freq)
	}

	return Bucket{lower: lower, upper: upper, freq: freq}, nil
}

// LowerBound returns the inclusive lower bound.
func (b Bucket) LowerBound() int64 { return b.lower }

// UpperBound returns the exclusive upper bound.
func (b Bucket) UpperBound() int64 { return b.upper }

// Frequency returns the count held by the bucket.
func (b Bucket) Frequency() float64 { return b.freq }

// Size returns upper - lower.
func (b Bucket) Size() int64 { return b.upper - b.lower }

// OverlapSize returns the length of the intersection of both ranges, or 0.
func (b Bucket) OverlapSize(other Bucket) int64 {
	return max(0, min(b.upper, other.upper)-max(b.lower, other.lower))
}

// CombineWith adds the frequency of other into b. The buckets must overlap.
// lossy reports that other is not fully contained in b, so the merge loses
// resolution; the frequency is moved as a whole either way.
func (b *Bucket) CombineWith(other Bucket) (lossy bool, err error) {
	overlap := b.OverlapSize(other)
	if overlap <= 0 {
		return false, ewrap.Wrapf(sentinel.ErrNoOverlap, "%s into %s", other, b)
	}

	b.freq += other.freq

	return overlap < other.Size(), nil
}

// String returns a readable form of the bucket.
func (b Bucket) String() string {
	return fmt.Sprintf("Bucket(start: %d, end: %d, freq: %s)", b.lower, b.upper, formatNumber(b.freq))
}

// Histogram is an ordered, contiguous, non-overlapping sequence of buckets.
type Histogram []Bucket

// NewHistogram builds numBins buckets of width binSize starting at start.
func NewHistogram(start, binSize int64, counts []float64) (Histogram, error) {
	h := make(Histogram, 0, len(counts))

	for i, c := range counts {
		lower := start + int64(i)*binSize

		b, err := NewBucket(lower, lower+binSize, c)
		if err != nil {
			return nil, err
		}

		h = append(h, b)
	}

	return h, nil
}

// Total returns the sum of all frequencies.
func (h Histogram) Total() float64 {
	var total float64
	for _, b := range h {
		total += b.freq
	}

	return total
}

// Width returns the size of the first bucket, or 0 for an empty histogram.
func (h Histogram) Width() int64 {
	if len(h) == 0 {
		return 0
	}

	return h[0].Size()
}

// Start returns the lower bound of the first bucket.
func (h Histogram) Start() int64 {
	if len(h) == 0 {
		return 0
	}

	return h[0].lower
}

// End returns the upper bound of the last bucket.
func (h Histogram) End() int64 {
	if len(h) == 0 {
		return 0
	}

	return h[len(h)-1].upper
}

// Frequencies returns the bucket frequencies in order.
func (h Histogram) Frequencies() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.freq
	}

	return out
}

// Clone returns an independent copy.
func (h Histogram) Clone() Histogram {
	return slices.Clone(h)
}
