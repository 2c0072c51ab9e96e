// Package stats collects operational statistics about the simstats engine
// itself: how many records were ingested or skipped, how many aggregations
// ran, how many histogram merges were lossy, and how long operations took.
package stats

// Stat names one engine statistic.
type Stat string

// String returns the string representation of a Stat.
func (s Stat) String() string {
	return string(s)
}

const (
	// RecordsIngested counts scalar and distribution records stored.
	RecordsIngested Stat = "records_ingested"
	// RecordsSkipped counts raw entries skipped (unknown type or reserved key).
	RecordsSkipped Stat = "records_skipped"
	// NodesCreated counts group nodes created by ingestion.
	NodesCreated Stat = "nodes_created"
	// Aggregations counts aggregate calls that succeeded.
	Aggregations Stat = "aggregations"
	// ValuesDropped counts unavailable scalar values dropped before a reduction.
	ValuesDropped Stat = "values_dropped"
	// LossyMerges counts source buckets merged into a bin that does not contain them.
	LossyMerges Stat = "lossy_merges"
	// Warnings counts advisory warnings emitted.
	Warnings Stat = "warnings"
	// IngestDuration records ingestion durations in nanoseconds.
	IngestDuration Stat = "ingest_duration_ns"
	// AggregateDuration records aggregation durations in nanoseconds.
	AggregateDuration Stat = "aggregate_duration_ns"
)

// Summary describes the values recorded for one stat.
type Summary struct {
	Mean     float64 // mean value
	Median   float64 // median value
	Min      int64   // minimum value
	Max      int64   // maximum value
	Values   []int64 // all values, sorted
	Count    int     // number of values
	Sum      int64   // sum of all values
	Variance float64 // population variance
}

// Stats maps a stat name to its summary.
type Stats map[string]*Summary

// Total returns the sum recorded for s, or 0.
func (st Stats) Total(s Stat) int64 {
	if summary, ok := st[s.String()]; ok {
		return summary.Sum
	}

	return 0
}
