package component

// TrackSegment is one brick of the recycled track. Segments are never
// destroyed; the recycler moves them forward and re-rolls their style.
type TrackSegment struct {
	// Slot is the segment's fixed index in the pool.
	Slot int
	// Row is the logical row along the forward axis.
	Row  int64
	Lane int

	HasObstacle  bool
	HeightOffset float64
}

// Distance returns the segment's forward position.
func (s TrackSegment) Distance(segmentSize float64) float64 {
	return float64(s.Row) * segmentSize
}

// LateralX returns the center of the segment's lane.
func (s TrackSegment) LateralX(laneWidth float64) float64 {
	return float64(s.Lane) * laneWidth
}

// SegmentStyle is the randomised part of a segment.
type SegmentStyle struct {
	HeightOffset float64
	HasObstacle  bool
}
