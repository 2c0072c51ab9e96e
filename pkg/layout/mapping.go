// Package layout prepares stats for comparative bar charts. It decides which
// visual channel (subgroup, group, hue, hatch, subplot) distinguishes each
// index dimension and the owner, and flattens the stats into rows carrying
// the per-channel ids, colors and hatch patterns. Drawing is left to callers.
package layout

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
)

// Channel is a visual property used to tell bars apart.
type Channel string

// Visual channels, in the order an inferred mapping fills them.
const (
	ChannelSubgroup Channel = "subgroup"
	ChannelGroup    Channel = "group"
	ChannelHue      Channel = "hue"
	ChannelHatch    Channel = "hatch"
	ChannelSubplot  Channel = "subplot"
)

// Parent is the pseudo dimension naming the owner of a value.
const Parent = "parent"

// Channels returns every channel in fill order.
func Channels() []Channel {
	return []Channel{ChannelSubgroup, ChannelGroup, ChannelHue, ChannelHatch, ChannelSubplot}
}

// Mapping ties channels to index dimensions (or Parent) and numbers the
// distinct values seen on each channel.
type Mapping struct {
	dims   map[Channel]string
	ids    map[Channel]*IDMap[string]
	owners []*hierarchy.Node
	common stat.OwnerSet
}

// Dimension returns the dimension shown on ch.
func (m *Mapping) Dimension(ch Channel) (string, bool) {
	d, ok := m.dims[ch]

	return d, ok
}

// Count returns the number of distinct values on ch, or 1 when ch is unused.
func (m *Mapping) Count(ch Channel) int {
	if ids, ok := m.ids[ch]; ok {
		return ids.Len()
	}

	return 1
}

// Owners returns the owners common to every mapped stat.
func (m *Mapping) Owners() []*hierarchy.Node {
	return slices.Clone(m.owners)
}

// ID returns the id on ch of the value described by index and owner.
// Unused channels always yield 0.
func (m *Mapping) ID(ch Channel, index stat.Index, owner *hierarchy.Node) int {
	dim, ok := m.dims[ch]
	if !ok {
		return 0
	}

	value := index[dim]
	if dim == Parent {
		value = owner.Path()
	}

	id, _ := m.ids[ch].ID(value)

	return id
}

// Label returns "<dimension>: <value>" for id on ch.
func (m *Mapping) Label(ch Channel, id int) string {
	dim, ok := m.dims[ch]
	if !ok {
		return ""
	}

	value, _ := m.ids[ch].Value(id)

	return dim + ": " + value
}

// String renders the mapping as channel=dimension pairs in channel order.
func (m *Mapping) String() string {
	parts := make([]string, 0, len(m.dims))

	for _, ch := range Channels() {
		if dim, ok := m.dims[ch]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", ch, dim))
		}
	}

	return strings.Join(parts, ",")
}

// BuildMapping decides which channel shows each index dimension of stats.
//
// explicit maps dimension names (and optionally Parent) to channel names. When
// nil the mapping is inferred: with several common owners Parent goes to the
// subgroup channel, then dimensions with more distinct values take earlier
// channels. Inferred mappings are logged at warn level since they may not be
// what the caller wants.
func BuildMapping(logger *zap.Logger, stats []stat.Stat, explicit map[string]string) (*Mapping, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	owners, err := CommonOwners(stats)
	if err != nil {
		return nil, err
	}

	dims := stats[0].Index().Dimensions()
	for _, s := range stats[1:] {
		if !slices.Equal(dims, s.Index().Dimensions()) {
			return nil, ewrap.Wrapf(sentinel.ErrIndexKeysMismatch, "%v and %v", dims, s.Index().Dimensions())
		}
	}

	values := uniqueValues(stats, dims)

	var assigned map[Channel]string
	if explicit == nil {
		assigned, err = infer(dims, values, len(owners))
		if err != nil {
			return nil, err
		}
	} else {
		assigned, err = validate(logger, dims, explicit, len(owners))
		if err != nil {
			return nil, err
		}
	}

	m := &Mapping{
		dims:   assigned,
		ids:    make(map[Channel]*IDMap[string], len(assigned)),
		owners: owners,
		common: stat.Owners(owners...),
	}

	for ch, dim := range assigned {
		if dim == Parent {
			paths := make([]string, len(owners))
			for i, o := range owners {
				paths[i] = o.Path()
			}

			m.ids[ch] = NewIDMap(paths...)

			continue
		}

		m.ids[ch] = values[dim]
	}

	if explicit == nil {
		logger.Warn("discriminator mapping inferred", zap.Stringer("mapping", m))
	}

	return m, nil
}

// uniqueValues numbers the values of each dimension in first-seen order.
func uniqueValues(stats []stat.Stat, dims []string) map[string]*IDMap[string] {
	out := make(map[string]*IDMap[string], len(dims))
	for _, d := range dims {
		out[d] = NewIDMap[string]()
	}

	for _, s := range stats {
		for _, d := range dims {
			out[d].Add(s.Index()[d])
		}
	}

	return out
}

func infer(dims []string, values map[string]*IDMap[string], numOwners int) (map[Channel]string, error) {
	assigned := make(map[Channel]string, len(dims)+1)
	free := Channels()

	if numOwners > 1 {
		assigned[ChannelSubgroup] = Parent
		free = free[1:]
	}

	if len(dims) > len(free) {
		return nil, ewrap.Wrapf(sentinel.ErrTooManyDimensions, "%d dimensions, %d channels", len(dims), len(free))
	}

	ordered := slices.Clone(dims)
	slices.SortStableFunc(ordered, func(a, b string) int {
		return cmp.Compare(values[b].Len(), values[a].Len())
	})

	for i, d := range ordered {
		assigned[free[i]] = d
	}

	return assigned, nil
}

func validate(logger *zap.Logger, dims []string, explicit map[string]string, numOwners int) (map[Channel]string, error) {
	known := Channels()
	assigned := make(map[Channel]string, len(explicit))

	for dim, name := range explicit {
		ch := Channel(name)
		if !slices.Contains(known, ch) {
			return nil, ewrap.Wrapf(sentinel.ErrInvalidMapping, "%q is not one of %v", name, known)
		}

		if other, dup := assigned[ch]; dup {
			return nil, ewrap.Wrapf(sentinel.ErrInvalidMapping, "%q and %q both use %s", other, dim, ch)
		}

		assigned[ch] = dim
	}

	_, hasParent := explicit[Parent]

	switch {
	case !hasParent && numOwners > 1:
		return nil, ewrap.Wrapf(sentinel.ErrInvalidMapping, "%d common owners and no channel for %s", numOwners, Parent)
	case hasParent && numOwners == 1:
		logger.Warn("channel given for parent with a single common owner", zap.String("channel", explicit[Parent]))
	}

	keys := make([]string, 0, len(explicit))
	for dim := range explicit {
		if dim != Parent {
			keys = append(keys, dim)
		}
	}

	slices.Sort(keys)

	if !slices.Equal(keys, dims) {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidMapping, "mapped dimensions %v, index dimensions %v", keys, dims)
	}

	return assigned, nil
}
