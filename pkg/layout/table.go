package layout

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
)

// Row is one bar: the value of a stat for one common owner.
type Row struct {
	Stat  string
	Index stat.Index
	Owner string
	Value stat.Value
	IDs   map[Channel]int
	Color Color
	Hatch string
}

// Table flattens scalar stats into rows, skipping owners outside the mapping.
func Table(stats []stat.Stat, m *Mapping) ([]Row, error) {
	var rows []Row

	for _, s := range stats {
		sc, ok := s.(*stat.Scalar)
		if !ok {
			return nil, ewrap.Wrapf(sentinel.ErrWrongVariant, "bars need a Scalar, %q is a %s", s.Name(), s.Variant())
		}

		sc.Each(func(owner *hierarchy.Node, v stat.Value) {
			if !m.common.Has(owner) {
				return
			}

			ids := make(map[Channel]int, len(Channels()))
			for _, ch := range Channels() {
				ids[ch] = m.ID(ch, sc.Index(), owner)
			}

			rows = append(rows, Row{
				Stat:  sc.Name(),
				Index: sc.Index(),
				Owner: owner.Path(),
				Value: v,
				IDs:   ids,
				Color: ColorFor(ids[ChannelHue]),
				Hatch: HatchFor(ids[ChannelHatch]),
			})
		})
	}

	return rows, nil
}
