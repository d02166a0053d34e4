package system

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/milk9111/knightrun/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct {
	style component.SegmentStyle
	calls []int64
}

func (g *fixedGenerator) Generate(row int64, lanes int) []component.SegmentStyle {
	g.calls = append(g.calls, row)
	styles := make([]component.SegmentStyle, lanes)
	for i := range styles {
		styles[i] = g.style
	}
	return styles
}

func TestNewTrackSystemLayout(t *testing.T) {
	tuning := testTuning()
	ts := NewTrackSystem(tuning, &fixedGenerator{}, nil)

	require.Equal(t, tuning.PoolSize(), ts.Len())
	segs := ts.Segments()
	lanes := tuning.LaneCount()
	for i, seg := range segs {
		assert.Equal(t, i, seg.Slot)
		assert.Equal(t, int64(i/lanes-tuning.BackRows), seg.Row)
		assert.Equal(t, i%lanes-tuning.HalfLanes, seg.Lane)
	}
	assert.Equal(t, int64(-tuning.BackRows), segs[0].Row)
	assert.Equal(t, int64(tuning.Rows-tuning.BackRows-1), segs[len(segs)-1].Row)
}

func TestNewTrackSystemSafeRows(t *testing.T) {
	tuning := testTuning()
	ts := NewTrackSystem(tuning, &fixedGenerator{style: component.SegmentStyle{HasObstacle: true}}, nil)

	free := make(map[int64]int)
	for _, seg := range ts.Segments() {
		if !seg.HasObstacle {
			free[seg.Row]++
		}
	}
	for row := int64(-tuning.BackRows); row < int64(tuning.Rows-tuning.BackRows); row++ {
		if row >= 0 && row < int64(tuning.SafeRows) {
			assert.Equal(t, tuning.LaneCount(), free[row], "row %d ahead of spawn", row)
		} else {
			assert.Equal(t, 1, free[row], "row %d", row)
		}
	}
}

func TestTrackSystemRecycleScenario(t *testing.T) {
	tuning := testTuning()
	gen := &fixedGenerator{style: component.SegmentStyle{HeightOffset: -0.1}}
	ts := NewTrackSystem(tuning, gen, nil)

	before, ok := ts.Segment(0)
	require.True(t, ok)
	oldDistance := before.Distance(tuning.SegmentSize)

	assert.Empty(t, ts.Recycle(0))

	moved := ts.Recycle(0.5)
	lanes := tuning.LaneCount()
	require.Len(t, moved, lanes)
	for j := 0; j < lanes; j++ {
		assert.Equal(t, j, moved[j])
	}

	after, _ := ts.Segment(0)
	assert.Equal(t, oldDistance+tuning.Period(), after.Distance(tuning.SegmentSize))
	assert.Equal(t, before.Lane, after.Lane)
	assert.Equal(t, -0.1, after.HeightOffset)
	assert.Equal(t, after.Row, gen.calls[len(gen.calls)-1])
	assert.Equal(t, int64(lanes), ts.Recycled())
}

func TestTrackSystemSpacingInvariantVariableDt(t *testing.T) {
	tuning := testTuning()
	ts := NewTrackSystem(tuning, NewRandomGenerator(GeneratorConfig{Seed: 8, ObstacleProbability: 0.3, HeightJitter: 0.1}), nil)
	initial := ts.Segments()
	rng := rand.New(rand.NewPCG(4, 4))
	lanes := tuning.LaneCount()

	progress := 0.0
	for i := 0; i < 3000; i++ {
		dt := rng.Float64() * 0.05
		if i%500 == 499 {
			// a long stall must not leave rows behind
			dt = 7.5
		}
		progress += tuning.RunningSpeed * dt
		ts.Recycle(progress)

		segs := ts.Segments()
		rows := make([]int64, 0, tuning.Rows)
		for j, seg := range segs {
			delta := seg.Row - initial[j].Row
			require.GreaterOrEqual(t, delta, int64(0))
			require.Zero(t, delta%int64(tuning.Rows), "slot %d drifted", j)
			require.GreaterOrEqual(t, seg.Distance(tuning.SegmentSize), progress-tuning.BackMargin())
			if j%lanes == 0 {
				rows = append(rows, seg.Row)
			} else {
				require.Equal(t, segs[j-j%lanes].Row, seg.Row)
			}
		}

		sort.Slice(rows, func(a, b int) bool { return rows[a] < rows[b] })
		for k := 1; k < len(rows); k++ {
			require.Equal(t, rows[k-1]+1, rows[k], "rows not contiguous at progress %v", progress)
		}
	}
}

func TestTrackSystemPlayableRows(t *testing.T) {
	tuning := testTuning()
	tuning.SafeRows = 0
	ts := NewTrackSystem(tuning, &fixedGenerator{style: component.SegmentStyle{HasObstacle: true}}, nil)
	lanes := tuning.LaneCount()

	check := func() {
		segs := ts.Segments()
		for base := 0; base < len(segs); base += lanes {
			free := 0
			for j := 0; j < lanes; j++ {
				if !segs[base+j].HasObstacle {
					free++
				}
			}
			require.Equal(t, 1, free, "row %d", segs[base].Row)
		}
	}

	check()
	for p := 0.0; p < 200; p += 1.3 {
		ts.Recycle(p)
		check()
	}
}

func TestEnsureFreeLane(t *testing.T) {
	styles := []component.SegmentStyle{{HasObstacle: true}, {HasObstacle: true}, {HasObstacle: true}}
	ensureFreeLane(styles, -4)
	assert.False(t, styles[2].HasObstacle)
	assert.True(t, styles[0].HasObstacle)

	styles = []component.SegmentStyle{{HasObstacle: true}, {}, {HasObstacle: true}}
	ensureFreeLane(styles, 0)
	assert.True(t, styles[0].HasObstacle)
	assert.True(t, styles[2].HasObstacle)
}

type shortGenerator struct{}

func (shortGenerator) Generate(row int64, lanes int) []component.SegmentStyle {
	return []component.SegmentStyle{{HeightOffset: -0.2}}
}

func TestTrackSystemPadsShortGenerator(t *testing.T) {
	ts := NewTrackSystem(testTuning(), shortGenerator{}, nil)
	segs := ts.Segments()
	assert.Equal(t, -0.2, segs[0].HeightOffset)
	assert.Equal(t, 0.0, segs[1].HeightOffset)

	_, ok := ts.Segment(-1)
	assert.False(t, ok)
	_, ok = ts.Segment(ts.Len())
	assert.False(t, ok)
}
