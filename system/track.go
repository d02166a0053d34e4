package system

import (
	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/logging"
	"go.uber.org/zap"
)

// TrackSystem owns the fixed pool of track segments. Segments of one row
// occupy consecutive slots, leftmost lane first, and are recycled together.
type TrackSystem struct {
	tuning    component.Tuning
	generator SegmentGenerator
	logger    *zap.Logger

	segments []component.TrackSegment
	recycled int64
}

// NewTrackSystem lays out rows [-back_rows, rows-back_rows) across every
// lane. Rows before safe_rows start without obstacles.
func NewTrackSystem(tuning component.Tuning, generator SegmentGenerator, logger *zap.Logger) *TrackSystem {
	if generator == nil {
		generator = NewRandomGenerator(GeneratorConfigFromTuning(tuning, 0))
	}
	ts := &TrackSystem{
		tuning:    tuning,
		generator: generator,
		logger:    logging.OrNop(logger),
		segments:  make([]component.TrackSegment, 0, tuning.PoolSize()),
	}

	lanes := tuning.LaneCount()
	for i := 0; i < tuning.Rows; i++ {
		row := int64(i - tuning.BackRows)
		styles := ts.roll(row)
		if row >= 0 && row < int64(tuning.SafeRows) {
			for j := range styles {
				styles[j].HasObstacle = false
			}
		}
		for j := 0; j < lanes; j++ {
			ts.segments = append(ts.segments, component.TrackSegment{
				Slot:         len(ts.segments),
				Row:          row,
				Lane:         j - tuning.HalfLanes,
				HasObstacle:  styles[j].HasObstacle,
				HeightOffset: styles[j].HeightOffset,
			})
		}
	}

	ts.logger.Info("track created",
		zap.Int("segments", len(ts.segments)),
		zap.Int("rows", tuning.Rows),
		zap.Int("lanes", lanes))
	return ts
}

// Recycle moves every row that fell more than back_rows behind progress
// forward by whole periods and re-rolls it. It returns the moved slots.
func (ts *TrackSystem) Recycle(progress float64) []int {
	if ts == nil || len(ts.segments) == 0 {
		return nil
	}

	lanes := ts.tuning.LaneCount()
	threshold := progress - ts.tuning.BackMargin()
	var moved []int

	for base := 0; base < len(ts.segments); base += lanes {
		row := ts.segments[base].Row
		start := row
		for float64(row)*ts.tuning.SegmentSize < threshold {
			row += int64(ts.tuning.Rows)
		}
		if row == start {
			continue
		}

		styles := ts.roll(row)
		for j := 0; j < lanes; j++ {
			seg := &ts.segments[base+j]
			seg.Row = row
			seg.HasObstacle = styles[j].HasObstacle
			seg.HeightOffset = styles[j].HeightOffset
			moved = append(moved, seg.Slot)
		}
	}

	if len(moved) > 0 {
		ts.recycled += int64(len(moved))
		ts.logger.Debug("segments recycled",
			zap.Int("count", len(moved)),
			zap.Float64("progress", progress))
	}
	return moved
}

func (ts *TrackSystem) roll(row int64) []component.SegmentStyle {
	lanes := ts.tuning.LaneCount()
	styles := ts.generator.Generate(row, lanes)
	if len(styles) != lanes {
		fixed := make([]component.SegmentStyle, lanes)
		copy(fixed, styles)
		styles = fixed
	}
	ensureFreeLane(styles, row)
	return styles
}

// ensureFreeLane clears one obstacle when a row would block every lane.
func ensureFreeLane(styles []component.SegmentStyle, row int64) {
	if len(styles) == 0 {
		return
	}
	for _, s := range styles {
		if !s.HasObstacle {
			return
		}
	}
	n := int64(len(styles))
	styles[((row%n)+n)%n].HasObstacle = false
}

func (ts *TrackSystem) Segment(slot int) (component.TrackSegment, bool) {
	if ts == nil || slot < 0 || slot >= len(ts.segments) {
		return component.TrackSegment{}, false
	}
	return ts.segments[slot], true
}

// Segments returns a copy of the pool.
func (ts *TrackSystem) Segments() []component.TrackSegment {
	if ts == nil {
		return nil
	}
	out := make([]component.TrackSegment, len(ts.segments))
	copy(out, ts.segments)
	return out
}

func (ts *TrackSystem) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.segments)
}

// Recycled returns the number of segment moves since creation.
func (ts *TrackSystem) Recycled() int64 {
	if ts == nil {
		return 0
	}
	return ts.recycled
}
