package layout

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
)

// CommonOwners returns the owners present in every stat, in the parent order
// of the first one.
func CommonOwners(stats []stat.Stat) ([]*hierarchy.Node, error) {
	if len(stats) == 0 {
		return nil, ewrap.Wrap(sentinel.ErrNoCommonOwners, "no stats")
	}

	common := stats[0].Owners()
	for _, s := range stats[1:] {
		common = common.Intersect(s.Owners())
	}

	out := make([]*hierarchy.Node, 0, len(common))

	for _, p := range stats[0].Parents() {
		if common.Has(p) {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return nil, sentinel.ErrNoCommonOwners
	}

	return out, nil
}
