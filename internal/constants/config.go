// Package constants defines default configuration values and well-known names
// for the simstats system. It provides the hierarchy separator, the aggregator
// kinds with their owner names, and the supported dump formats.
package constants

const (
	// PathSeparator joins the names of a node's ancestors into its path.
	// Raw keys containing it are reserved for vector stats and are skipped on ingest.
	PathSeparator = "."

	// AggregatorPathPrefix prefixes the path of every aggregator owner node.
	// The prefix keeps aggregator paths disjoint from paths built by ingestion.
	AggregatorPathPrefix = "Stats::"

	// DefaultRootName is the name given to the root node of an ingested tree.
	DefaultRootName = "root"

	// DefaultFormat is the dump format assumed when none is given.
	DefaultFormat = "json"

	// DefaultIngestWorkers is the number of dumps decoded concurrently by IngestAll.
	DefaultIngestWorkers = 4
)

// Aggregator kinds.
const (
	// AggregatorSum sums scalar values.
	AggregatorSum = "sum"
	// AggregatorMean takes the arithmetic mean of scalar values.
	AggregatorMean = "mean"
	// AggregatorGeoMean takes the geometric mean of scalar values.
	AggregatorGeoMean = "geomean"
	// AggregatorMin takes the minimum of scalar values.
	AggregatorMin = "min"
	// AggregatorMax takes the maximum of scalar values.
	AggregatorMax = "max"
	// AggregatorCombine merges distribution histograms.
	AggregatorCombine = "combine"
)

// Record types found in raw dumps.
const (
	RecordGroup        = "Group"
	RecordScalar       = "Scalar"
	RecordDistribution = "Distribution"
)

// Dump formats understood by the serializer registry.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatCBOR    = "cbor"
	FormatYAML    = "yaml"
)
