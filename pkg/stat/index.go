package stat

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Index identifies the run a stat was produced for: configuration dimension -> value.
// Stats combine arithmetically only when their indices are equal.
type Index map[string]string

// Equal reports whether both indices hold the same dimensions and values.
func (i Index) Equal(other Index) bool {
	return maps.Equal(i, other)
}

// Dimensions returns the dimension names in sorted order.
func (i Index) Dimensions() []string {
	return slices.Sorted(maps.Keys(i))
}

// Clone returns a copy of the index.
func (i Index) Clone() Index {
	if i == nil {
		return Index{}
	}

	return maps.Clone(i)
}

// String returns the display form "k1=v1,k2=v2" with keys sorted.
// Values are not escaped; use Key or Equal to tell indices apart.
func (i Index) String() string {
	var sb strings.Builder

	for n, k := range i.Dimensions() {
		if n > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(i[k])
	}

	return sb.String()
}

// Key returns a hash of the index, usable as a map key for runs.
// Keys and values are length-prefixed before hashing, so separators inside
// values cannot make two different indices share an encoding. Callers still
// confirm a hit with Equal.
func (i Index) Key() uint64 {
	buf := make([]byte, 0, 64)

	for _, k := range i.Dimensions() {
		buf = strconv.AppendInt(buf, int64(len(k)), 10)
		buf = append(buf, ':')
		buf = append(buf, k...)
		buf = strconv.AppendInt(buf, int64(len(i[k])), 10)
		buf = append(buf, ':')
		buf = append(buf, i[k]...)
	}

	return xxhash.Sum64(buf)
}
