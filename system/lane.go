package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/logging"
	"go.uber.org/zap"
)

// LaneSystem drives the knight's discrete lane, jump and grace state and
// turns it into a desired velocity for the motion controller.
type LaneSystem struct {
	tuning component.Tuning
	logger *zap.Logger
}

func NewLaneSystem(tuning component.Tuning, logger *zap.Logger) *LaneSystem {
	return &LaneSystem{tuning: tuning, logger: logging.OrNop(logger)}
}

// Step advances k by one fixed tick. feedback is ignored when ok is false,
// which leaves the knight ungrounded.
func (l *LaneSystem) Step(k *component.Knight, cmd component.Commands, feedback component.Feedback, ok bool, dt float64) mgl64.Vec3 {
	if l == nil || k == nil {
		return mgl64.Vec3{}
	}
	forward := -l.tuning.RunningSpeed
	if dt <= 0 {
		return mgl64.Vec3{0, k.UpSpeed, forward}
	}

	k.Grounded = ok && feedback.Grounded

	k.UpSpeed += l.tuning.Gravity * l.tuning.Mass * dt
	if k.Grounded && k.UpSpeed <= 0 {
		k.UpSpeed = 0
		if k.MovingDirection == component.DirectionUp {
			k.MovingDirection = component.DirectionNone
			l.logger.Debug("knight landed", zap.Int("lane", k.Lane))
		}
	}

	if k.Grounded {
		k.Grace = l.tuning.GraceDuration
	} else {
		k.Grace -= dt
		if k.Grace < 0 {
			k.Grace = 0
		}
	}

	ctx := &laneContext{
		knight:   k,
		tuning:   l.tuning,
		commands: cmd,
		dt:       dt,
		logger:   l.logger,
	}
	prev := laneStateFor(k.MovingDirection)
	if cmd.Any() {
		prev.HandleInput(ctx)
	}
	next := laneStateFor(k.MovingDirection)
	next.Update(ctx)
	if after := laneStateFor(k.MovingDirection); after != prev {
		l.logger.Debug("lane state",
			zap.String("from", prev.Name()),
			zap.String("to", after.Name()))
	}

	return mgl64.Vec3{ctx.lateral / dt, k.UpSpeed, forward}
}

// CanJump reports whether a jump pressed now would be accepted.
func (l *LaneSystem) CanJump(k *component.Knight) bool {
	if k == nil {
		return false
	}
	return k.MovingDirection == component.DirectionNone && (k.Grounded || k.Grace > 0)
}
