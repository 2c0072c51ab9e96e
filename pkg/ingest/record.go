package ingest

import (
	"math"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cast"

	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/stat"
)

// Raw record fields.
const (
	fieldType    = "type"
	fieldName    = "name"
	fieldValue   = "value"
	fieldNumBins = "num_bins"
	fieldBinSize = "bin_size"
	fieldMin     = "min"
)

// recordType returns the type field of a raw entry, or "".
func recordType(raw map[string]any) string {
	t, _ := raw[fieldType].(string)

	return t
}

// ParseRecord converts the raw entry stored under key into a Record.
// The name defaults to key when the entry has none. A scalar value that is
// not numeric is stored as the missing marker.
func ParseRecord(key string, raw map[string]any) (stat.Record, error) {
	rec, _, err := parseRecord(key, raw)

	return rec, err
}

// parseRecord is ParseRecord that also reports whether a scalar value had to
// be replaced by the missing marker.
func parseRecord(key string, raw map[string]any) (rec stat.Record, coerced bool, err error) {
	rec = stat.Record{
		Type: recordType(raw),
		Name: key,
	}

	if name, ok := raw[fieldName]; ok && name != nil {
		rec.Name = cast.ToString(name)
	}

	switch rec.Type {
	case constants.RecordScalar:
		rec.Value, coerced = parseValue(raw[fieldValue])
	case constants.RecordDistribution:
		err = parseDistribution(key, raw, &rec)
		if err != nil {
			return stat.Record{}, false, err
		}
	default:
		return stat.Record{}, false, ewrap.Wrapf(sentinel.ErrMalformedRecord, "%q has type %q", key, rec.Type)
	}

	return rec, coerced, nil
}

// parseValue maps null and NaN to the missing marker and infinities to the
// infinite marker. Values cast cannot convert ("N/A", "", lists) are missing
// too, and reported as coerced.
func parseValue(raw any) (v stat.Value, coerced bool) {
	if raw == nil {
		return stat.Missing(), false
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return stat.Missing(), true
	}

	return stat.FromFloat(f), false
}

func parseDistribution(key string, raw map[string]any, rec *stat.Record) error {
	counts, ok := raw[fieldValue].([]any)
	if !ok && raw[fieldValue] != nil {
		return ewrap.Wrapf(sentinel.ErrMalformedRecord, "distribution %q: value is not a list", key)
	}

	rec.Counts = make([]float64, 0, len(counts))

	for i, c := range counts {
		f, err := cast.ToFloat64E(c)
		if err != nil || math.IsNaN(f) {
			return ewrap.Wrapf(sentinel.ErrMalformedRecord, "distribution %q: bin %d holds %v", key, i, c)
		}

		rec.Counts = append(rec.Counts, f)
	}

	var err error

	rec.NumBins, err = cast.ToIntE(raw[fieldNumBins])
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrMalformedRecord, "distribution %q: %s: %v", key, fieldNumBins, err)
	}

	rec.BinSize, err = cast.ToInt64E(raw[fieldBinSize])
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrMalformedRecord, "distribution %q: %s: %v", key, fieldBinSize, err)
	}

	rec.Min, err = cast.ToInt64E(raw[fieldMin])
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrMalformedRecord, "distribution %q: %s: %v", key, fieldMin, err)
	}

	return nil
}
