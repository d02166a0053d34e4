package component

// Tuning holds the load-time constants of a session.
type Tuning struct {
	HalfLanes int
	LaneWidth float64

	RunningSpeed  float64
	LateralSpeed  float64
	JumpSpeed     float64
	Gravity       float64
	Mass          float64
	GraceDuration float64
	SpawnHeight   float64
	KnightWidth   float64
	KnightHeight  float64

	Rows                int
	BackRows            int
	SafeRows            int
	SegmentSize         float64
	BrickThickness      float64
	ObstacleProbability float64
	ObstacleHeight      float64
	HeightJitter        float64

	TickRate  int
	FallLimit float64
}

// LaneCount returns the number of lanes, 2L+1.
func (t Tuning) LaneCount() int {
	return 2*t.HalfLanes + 1
}

// PoolSize returns the constant number of track segments.
func (t Tuning) PoolSize() int {
	return t.Rows * t.LaneCount()
}

// Period is the forward distance a segment jumps when recycled.
func (t Tuning) Period() float64 {
	return float64(t.Rows) * t.SegmentSize
}

// BackMargin is how far behind the knight a segment may fall before recycling.
func (t Tuning) BackMargin() float64 {
	return float64(t.BackRows) * t.SegmentSize
}

// StepDuration returns the fixed tick length in seconds.
func (t Tuning) StepDuration() float64 {
	if t.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(t.TickRate)
}

// LaneX returns the lateral center of lane.
func (t Tuning) LaneX(lane int) float64 {
	return float64(lane) * t.LaneWidth
}

// InBounds reports whether lane lies within [-L, L].
func (t Tuning) InBounds(lane int) bool {
	return lane >= -t.HalfLanes && lane <= t.HalfLanes
}
