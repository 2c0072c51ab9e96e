package stats

import (
	"slices"
	"sync"

	gonumstat "gonum.org/v1/gonum/stat"
)

// HistogramStatsCollector is a stats collector that keeps every recorded value.
type HistogramStatsCollector struct {
	mu    sync.RWMutex // mutex to protect concurrent access to the stats
	stats map[string][]int64
}

// NewHistogramStatsCollector creates a new histogram stats collector.
func NewHistogramStatsCollector() *HistogramStatsCollector {
	return &HistogramStatsCollector{
		stats: make(map[string][]int64),
	}
}

// Incr increments the count of a statistic by the given value.
func (c *HistogramStatsCollector) Incr(stat Stat, value int64) {
	c.record(stat, value)
}

// Timing records the time it took for an event to occur.
func (c *HistogramStatsCollector) Timing(stat Stat, value int64) {
	c.record(stat, value)
}

// Histogram records the statistical distribution of a set of values.
func (c *HistogramStatsCollector) Histogram(stat Stat, value int64) {
	c.record(stat, value)
}

// Percentile returns the pth percentile (0 to 1) of a statistic, or 0 when nothing was recorded.
func (c *HistogramStatsCollector) Percentile(stat Stat, percentile float64) float64 {
	c.mu.RLock()
	values := slices.Clone(c.stats[stat.String()])
	c.mu.RUnlock()

	if len(values) == 0 {
		return 0
	}

	slices.Sort(values)

	return gonumstat.Quantile(percentile, gonumstat.Empirical, floats(values), nil)
}

// GetStats returns the stats collected by the stats collector.
// It calculates the mean, median, min, max, count, sum, and variance for each stat.
func (c *HistogramStatsCollector) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Stats, len(c.stats))

	for name, recorded := range c.stats {
		values := slices.Clone(recorded)
		slices.Sort(values)

		data := floats(values)
		mean, variance := gonumstat.PopMeanVariance(data, nil)

		out[name] = &Summary{
			Mean:     mean,
			Median:   median(values),
			Min:      values[0],
			Max:      values[len(values)-1],
			Values:   values,
			Count:    len(values),
			Sum:      sum(values),
			Variance: variance,
		}
	}

	return out
}

func (c *HistogramStatsCollector) record(stat Stat, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats[stat.String()] = append(c.stats[stat.String()], value)
}

// median expects sorted values.
func median(values []int64) float64 {
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return float64(values[mid-1]+values[mid]) / 2
	}

	return float64(values[mid])
}

func sum(values []int64) int64 {
	var total int64
	for _, value := range values {
		total += value
	}

	return total
}

func floats(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}

	return out
}
