// Package sentinel provides standardized error definitions for the simstats system.
// This package centralizes all error types used across the simstats components,
// ensuring consistent error handling and messaging throughout the application.
//
// Errors fall into two categories that callers can test with errors.Is:
// ErrStructuralMisuse (the API was used in a way the data model forbids) and
// ErrInvariantViolation (an internal invariant did not hold). Every specific
// misuse error wraps its category, so both checks succeed on it.
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrStructuralMisuse is the category of every error caused by using the data model the wrong way.
	ErrStructuralMisuse = ewrap.New("structural misuse")

	// ErrInvariantViolation is the category of errors raised when an internal invariant does not hold.
	ErrInvariantViolation = ewrap.New("invariant violation")
)

var (
	// ErrChildOnAggregator is returned when a child is added to an aggregator owner node.
	ErrChildOnAggregator = ewrap.Wrap(ErrStructuralMisuse, "aggregator nodes cannot have children")

	// ErrWrongVariant is returned when a stat of the wrong variant is handed to an operation,
	// e.g. a Distribution to a scalar reducer.
	ErrWrongVariant = ewrap.Wrap(ErrStructuralMisuse, "wrong stat variant")

	// ErrUnsupportedOperation is returned by every arithmetic operation on a Distribution.
	ErrUnsupportedOperation = ewrap.Wrap(ErrStructuralMisuse, "operation not supported")

	// ErrIndexMismatch is returned when two stats from different runs are combined.
	ErrIndexMismatch = ewrap.Wrap(ErrStructuralMisuse, "indices differ, stats come from different runs")

	// ErrOwnerMismatch is returned when two scalars with different owner sets are combined.
	// Combining stats with different owners requires a meld, which is not done implicitly.
	ErrOwnerMismatch = ewrap.Wrap(ErrStructuralMisuse, "owner sets differ, meld the stats first")

	// ErrAmbiguousFilter is returned when both an include and an exclude owner set are given.
	ErrAmbiguousFilter = ewrap.Wrap(ErrStructuralMisuse, "either the include or the exclude set must be empty")

	// ErrRecordNameMismatch is returned when a record is processed under a different stat name.
	ErrRecordNameMismatch = ewrap.Wrap(ErrStructuralMisuse, "record name does not match stat name")

	// ErrMalformedRecord is returned when a distribution record is internally inconsistent.
	ErrMalformedRecord = ewrap.Wrap(ErrStructuralMisuse, "malformed record")

	// ErrInvalidBucket is returned when a bucket has lower >= upper or a negative frequency.
	ErrInvalidBucket = ewrap.Wrap(ErrStructuralMisuse, "invalid bucket")

	// ErrNoOverlap is returned when two buckets that do not overlap are combined.
	ErrNoOverlap = ewrap.Wrap(ErrStructuralMisuse, "buckets do not overlap")

	// ErrUnplaceableBucket is returned when the histogram merge cannot place a source bucket
	// in any candidate target bin.
	ErrUnplaceableBucket = ewrap.Wrap(ErrInvariantViolation, "bucket overlaps none of the candidate bins")
)

var (
	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrAggregatorNotFound is returned when an aggregator kind is not registered.
	ErrAggregatorNotFound = ewrap.New("aggregator not found")

	// ErrSerializerNotFound is returned when a serializer is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrStatsCollectorNotFound is returned when a stats collector name is not registered.
	ErrStatsCollectorNotFound = ewrap.New("stats collector not found")

	// ErrEmptyAggregation is returned when a reduction has no values to work on.
	ErrEmptyAggregation = ewrap.New("nothing to aggregate")

	// ErrDomain is returned when a reduction is undefined for its input, e.g. the
	// geometric mean of negative values.
	ErrDomain = ewrap.New("value outside the reduction domain")

	// ErrStatNotFound is returned when a stat name is unknown for a run.
	ErrStatNotFound = ewrap.New("stat not found")

	// ErrRunNotFound is returned when no run was ingested for an index.
	ErrRunNotFound = ewrap.New("run not found")

	// ErrNoCommonOwners is returned when the stats handed to the layout share no owner.
	ErrNoCommonOwners = ewrap.New("no common owners found in the provided stats")

	// ErrIndexKeysMismatch is returned when stats handed to the layout have different index keys.
	ErrIndexKeysMismatch = ewrap.New("all stats should have the same index keys")

	// ErrTooManyDimensions is returned when there are more index dimensions than visual channels.
	ErrTooManyDimensions = ewrap.New("more index dimensions than visual channels")

	// ErrInvalidMapping is returned when an explicit discriminator mapping is rejected.
	ErrInvalidMapping = ewrap.New("invalid discriminator mapping")

	// ErrTimeoutOrCanceled is returned when a timeout or cancellation occurs.
	ErrTimeoutOrCanceled = ewrap.New("the operation timed out or was canceled")
)
