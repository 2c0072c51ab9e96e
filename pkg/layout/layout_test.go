package layout

import (
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hyp3rd/simstats/internal/sentinel"
	"github.com/hyp3rd/simstats/pkg/hierarchy"
	"github.com/hyp3rd/simstats/pkg/stat"
)

type runs struct {
	arena *hierarchy.Arena
	cpus  []*hierarchy.Node
}

func newRuns() runs {
	arena := hierarchy.NewArena()

	return runs{
		arena: arena,
		cpus: []*hierarchy.Node{
			arena.NewNode("cpu0", "board.cpu0"),
			arena.NewNode("cpu1", "board.cpu1"),
			arena.NewNode("cpu2", "board.cpu2"),
		},
	}
}

// ipc returns a scalar for index owned by the first n cpus.
func (r runs) ipc(t *testing.T, index stat.Index, n int) stat.Stat {
	t.Helper()

	s := stat.NewScalar(index, "ipc")
	for i, cpu := range r.cpus[:n] {
		rec := stat.Record{Type: "Scalar", Name: "ipc", Value: stat.Number(float64(i + 1))}
		assert.NoError(t, s.ProcessRecord(cpu, "ipc", rec))
	}

	return s
}

func (r runs) sample(t *testing.T) []stat.Stat {
	return []stat.Stat{
		r.ipc(t, stat.Index{"cpu": "o3", "workload": "bfs"}, 2),
		r.ipc(t, stat.Index{"cpu": "o3", "workload": "tc"}, 2),
		r.ipc(t, stat.Index{"cpu": "minor", "workload": "bfs"}, 3),
	}
}

func TestIDMap(t *testing.T) {
	m := NewIDMap("b", "a", "b", "c")

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"b", "a", "c"}, m.Values())

	id, ok := m.ID("c")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	assert.Equal(t, 1, m.Add("a"))
	assert.Equal(t, 3, m.Add("d"))

	v, ok := m.Value(0)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = m.Value(9)
	assert.False(t, ok)
}

func TestPalette(t *testing.T) {
	assert.Equal(t, 16, PaletteSize())
	assert.Equal(t, 11, HatchCount())
	assert.Equal(t, "darkorange", ColorFor(0).Name)
	assert.Equal(t, "#FF8C00", ColorFor(16).Hex)
	assert.Equal(t, "fuchsia", ColorFor(-1).Name)
	assert.Equal(t, "", HatchFor(11))
	assert.Equal(t, "/", HatchFor(1))
}

func TestCommonOwners(t *testing.T) {
	r := newRuns()

	owners, err := CommonOwners(r.sample(t))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(owners))
	assert.Equal(t, "board.cpu0", owners[0].Path())

	_, err = CommonOwners(nil)
	assert.True(t, errors.Is(err, sentinel.ErrNoCommonOwners))

	other := stat.NewScalar(stat.Index{}, "ipc")
	lone := r.arena.NewNode("gpu", "board.gpu")
	assert.NoError(t, other.ProcessRecord(lone, "ipc", stat.Record{Type: "Scalar", Name: "ipc", Value: stat.Number(1)}))

	_, err = CommonOwners([]stat.Stat{r.ipc(t, stat.Index{}, 1), other})
	assert.True(t, errors.Is(err, sentinel.ErrNoCommonOwners))
}

func TestBuildMapping_Inferred(t *testing.T) {
	r := newRuns()
	core, logs := observer.New(zapcore.WarnLevel)

	m, err := BuildMapping(zap.New(core), r.sample(t), nil)
	assert.NoError(t, err)

	dim, ok := m.Dimension(ChannelSubgroup)
	assert.True(t, ok)
	assert.Equal(t, Parent, dim)

	// cpu and workload both have two values; the tie keeps sorted order
	dim, _ = m.Dimension(ChannelGroup)
	assert.Equal(t, "cpu", dim)
	dim, _ = m.Dimension(ChannelHue)
	assert.Equal(t, "workload", dim)

	_, ok = m.Dimension(ChannelSubplot)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Count(ChannelSubplot))
	assert.Equal(t, 2, m.Count(ChannelSubgroup))
	assert.Equal(t, "subgroup=parent,group=cpu,hue=workload", m.String())
	assert.Equal(t, "cpu: minor", m.Label(ChannelGroup, 1))

	assert.Equal(t, 1, len(logs.FilterMessage("discriminator mapping inferred").All()))
}

func TestBuildMapping_InferredOrdersByDistinctValues(t *testing.T) {
	r := newRuns()
	stats := []stat.Stat{
		r.ipc(t, stat.Index{"cpu": "o3", "workload": "bfs"}, 1),
		r.ipc(t, stat.Index{"cpu": "o3", "workload": "tc"}, 1),
		r.ipc(t, stat.Index{"cpu": "minor", "workload": "pr"}, 1),
	}

	m, err := BuildMapping(nil, stats, nil)
	assert.NoError(t, err)

	// a single common owner leaves subgroup free for the busiest dimension
	dim, _ := m.Dimension(ChannelSubgroup)
	assert.Equal(t, "workload", dim)
	dim, _ = m.Dimension(ChannelGroup)
	assert.Equal(t, "cpu", dim)
}

func TestBuildMapping_TooManyDimensions(t *testing.T) {
	r := newRuns()
	index := stat.Index{"a": "1", "b": "1", "c": "1", "d": "1", "e": "1"}

	_, err := BuildMapping(nil, []stat.Stat{r.ipc(t, index, 2)}, nil)
	assert.True(t, errors.Is(err, sentinel.ErrTooManyDimensions))

	_, err = BuildMapping(nil, []stat.Stat{r.ipc(t, index, 1)}, nil)
	assert.NoError(t, err)
}

func TestBuildMapping_Explicit(t *testing.T) {
	tests := []struct {
		name     string
		mapping  map[string]string
		wantErr  error
		wantWarn bool
	}{
		{
			name:    "valid",
			mapping: map[string]string{"cpu": "hue", "workload": "group", Parent: "subgroup"},
		},
		{
			name:    "duplicate channel",
			mapping: map[string]string{"cpu": "hue", "workload": "hue", Parent: "subgroup"},
			wantErr: sentinel.ErrInvalidMapping,
		},
		{
			name:    "unknown channel",
			mapping: map[string]string{"cpu": "size", "workload": "hue", Parent: "subgroup"},
			wantErr: sentinel.ErrInvalidMapping,
		},
		{
			name:    "parent missing",
			mapping: map[string]string{"cpu": "hue", "workload": "group"},
			wantErr: sentinel.ErrInvalidMapping,
		},
		{
			name:    "not exhaustive",
			mapping: map[string]string{"cpu": "hue", Parent: "subgroup"},
			wantErr: sentinel.ErrInvalidMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRuns()

			m, err := BuildMapping(nil, r.sample(t), tt.mapping)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))

				return
			}

			assert.NoError(t, err)

			dim, _ := m.Dimension(ChannelHue)
			assert.Equal(t, "cpu", dim)
		})
	}
}

func TestBuildMapping_ParentWithSingleOwnerWarns(t *testing.T) {
	r := newRuns()
	core, logs := observer.New(zapcore.WarnLevel)

	stats := []stat.Stat{r.ipc(t, stat.Index{"cpu": "o3"}, 1)}

	_, err := BuildMapping(zap.New(core), stats, map[string]string{"cpu": "hue", Parent: "subgroup"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(logs.FilterMessage("channel given for parent with a single common owner").All()))
}

func TestBuildMapping_IndexKeysMismatch(t *testing.T) {
	r := newRuns()
	stats := []stat.Stat{
		r.ipc(t, stat.Index{"cpu": "o3"}, 1),
		r.ipc(t, stat.Index{"workload": "bfs"}, 1),
	}

	_, err := BuildMapping(nil, stats, nil)
	assert.True(t, errors.Is(err, sentinel.ErrIndexKeysMismatch))
}

func TestTable(t *testing.T) {
	r := newRuns()
	stats := r.sample(t)

	m, err := BuildMapping(nil, stats, nil)
	assert.NoError(t, err)

	rows, err := Table(stats, m)
	assert.NoError(t, err)

	// cpu2 only appears in the last stat and is not common
	assert.Equal(t, 6, len(rows))

	last := rows[5]
	assert.Equal(t, "ipc", last.Stat)
	assert.Equal(t, "board.cpu1", last.Owner)
	assert.Equal(t, 1, last.IDs[ChannelSubgroup])
	assert.Equal(t, 1, last.IDs[ChannelGroup])
	assert.Equal(t, 0, last.IDs[ChannelHue])
	assert.Equal(t, 0, last.IDs[ChannelSubplot])
	assert.Equal(t, "darkorange", last.Color.Name)
	assert.Equal(t, "", last.Hatch)

	f, _ := last.Value.Float()
	assert.Equal(t, 2.0, f)

	_, err = Table([]stat.Stat{stat.NewDistribution(stat.Index{}, "lat")}, m)
	assert.True(t, errors.Is(err, sentinel.ErrWrongVariant))
}
