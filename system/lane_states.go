package system

import (
	"github.com/milk9111/knightrun/common"
	"github.com/milk9111/knightrun/component"
	"go.uber.org/zap"
)

// laneState handles one MovingDirection of the knight.
type laneState interface {
	Name() string
	HandleInput(ctx *laneContext)
	Update(ctx *laneContext)
}

type laneContext struct {
	knight   *component.Knight
	tuning   component.Tuning
	commands component.Commands
	dt       float64
	logger   *zap.Logger

	// lateral is the displacement applied this tick.
	lateral float64
}

// Lane state singletons (avoid allocations on transitions).
var (
	laneStateIdle     laneState = &laneIdleState{}
	laneStateShifting laneState = &laneShiftState{}
	laneStateAirborne laneState = &laneAirborneState{}
)

func laneStateFor(d component.Direction) laneState {
	switch d {
	case component.DirectionLeft, component.DirectionRight:
		return laneStateShifting
	case component.DirectionUp:
		return laneStateAirborne
	default:
		return laneStateIdle
	}
}

type laneIdleState struct{}

type laneShiftState struct{}

type laneAirborneState struct{}

func (laneIdleState) Name() string { return "idle" }
func (laneIdleState) HandleInput(ctx *laneContext) {
	k := ctx.knight
	if ctx.commands.Jump && (k.Grounded || k.Grace > 0) {
		k.UpSpeed = ctx.tuning.JumpSpeed
		k.Grace = 0
		k.MovingDirection = component.DirectionUp
		ctx.logger.Debug("knight jump", zap.Int("lane", k.Lane), zap.Bool("grounded", k.Grounded))
		return
	}

	delta := 0
	if ctx.commands.MoveLeft {
		delta = -1
	} else if ctx.commands.MoveRight {
		delta = 1
	}
	if delta == 0 {
		return
	}
	target := k.Lane + delta
	if !ctx.tuning.InBounds(target) {
		return
	}
	k.TargetLane = target
	if delta < 0 {
		k.MovingDirection = component.DirectionLeft
	} else {
		k.MovingDirection = component.DirectionRight
	}
	ctx.logger.Debug("knight lane change", zap.Int("from", k.Lane), zap.Int("to", target))
}
func (laneIdleState) Update(ctx *laneContext) {}

func (laneShiftState) Name() string { return "shifting" }

// A move in flight ignores every command, including jump.
func (laneShiftState) HandleInput(ctx *laneContext) {}

// Update slides toward the target lane and snaps onto its center once the
// step reaches or crosses it, so repeated lane changes never drift.
func (laneShiftState) Update(ctx *laneContext) {
	k := ctx.knight
	sign := float64(common.Sign(k.TargetLane - k.Lane))
	target := ctx.tuning.LaneX(k.TargetLane)
	from := k.Position.X()
	x := from + sign*ctx.tuning.LateralSpeed*ctx.dt

	if (sign > 0 && x >= target) || (sign < 0 && x <= target) || sign == 0 {
		x = target
		k.Lane = k.TargetLane
		k.MovingDirection = component.DirectionNone
	}

	k.Position[0] = x
	ctx.lateral = x - from
}

func (laneAirborneState) Name() string { return "airborne" }

// Landing is resolved before input; while rising or falling nothing is accepted.
func (laneAirborneState) HandleInput(ctx *laneContext) {}
func (laneAirborneState) Update(ctx *laneContext)      {}
