package system

import "github.com/milk9111/knightrun/component"

func testTuning() component.Tuning {
	return component.Tuning{
		HalfLanes: 1,
		LaneWidth: 2,

		RunningSpeed:  6,
		LateralSpeed:  20,
		JumpSpeed:     20,
		Gravity:       -9.81,
		Mass:          5,
		GraceDuration: 0.2,
		SpawnHeight:   4,
		KnightWidth:   0.8,
		KnightHeight:  1.8,

		Rows:                12,
		BackRows:            3,
		SafeRows:            2,
		SegmentSize:         2,
		BrickThickness:      2,
		ObstacleProbability: 0.1,
		ObstacleHeight:      2.5,
		HeightJitter:        0.1,

		TickRate:  60,
		FallLimit: -10,
	}
}

func grounded() component.Feedback {
	return component.Feedback{Grounded: true}
}
