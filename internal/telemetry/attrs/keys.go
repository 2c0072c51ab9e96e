// Package attrs defines telemetry attribute keys shared by the simstats
// middlewares, so metrics, traces and logs use the same names.
package attrs

const (
	// AttrRun is the run index, rendered as sorted key=value pairs.
	AttrRun = "simstats.run"
	// AttrStatName is the name of the stat an operation works on.
	AttrStatName = "simstats.stat"
	// AttrAggregator is the aggregator kind.
	AttrAggregator = "simstats.aggregator"
	// AttrFormat is the dump format being decoded.
	AttrFormat = "simstats.format"
	// AttrOwnerCount is the number of owners in a result.
	AttrOwnerCount = "simstats.owners.count"
	// AttrStatCount is the number of stats in a run.
	AttrStatCount = "simstats.stats.count"
	// AttrBytes is the size of a raw dump in bytes.
	AttrBytes = "simstats.bytes"
)
