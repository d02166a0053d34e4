package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/logging"
	"go.uber.org/zap"
)

const (
	collisionTypeKnight cp.CollisionType = iota + 1
	collisionTypeKnightGround
	collisionTypeBrick
	collisionTypeObstacle
)

const groundSensorDepth = 0.05

// PhysicsSystem resolves knight contacts with Chipmunk. The space spans the
// forward and vertical axes (cp X is forward distance, cp Y is height); the
// lateral lane axis is kinematic and each lane is a collision category, so
// the knight only touches segments of the lanes it overlaps.
type PhysicsSystem struct {
	tuning component.Tuning
	logger *zap.Logger
	space  *cp.Space

	knight       *cp.Body
	knightAll    []*cp.Shape
	knightShapes map[*cp.Shape]struct{}
	groundShapes map[*cp.Shape]struct{}

	bodies     []*cp.Body
	bricks     []*cp.Shape
	obstacles  []*cp.Shape
	obstacleOn []bool
	shapeSlot  map[*cp.Shape]int

	lateral   float64
	sweep     float64
	desired   cp.Vector
	feedback  component.Feedback
	touched   bool
	contacted bool
}

func NewPhysicsSystem(tuning component.Tuning, logger *zap.Logger) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	ps := &PhysicsSystem{
		tuning:       tuning,
		logger:       logging.OrNop(logger),
		space:        space,
		knightShapes: make(map[*cp.Shape]struct{}),
		groundShapes: make(map[*cp.Shape]struct{}),
		shapeSlot:    make(map[*cp.Shape]int),
	}
	ps.ensureHandlers()
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) ensureHandlers() {
	for _, kind := range []cp.CollisionType{collisionTypeBrick, collisionTypeObstacle} {
		contact := ps.space.NewCollisionHandler(collisionTypeKnight, kind)
		contact.UserData = ps
		contact.PreSolveFunc = knightPreSolve

		ground := ps.space.NewCollisionHandler(collisionTypeKnightGround, kind)
		ground.UserData = ps
		ground.PreSolveFunc = groundPreSolve
	}
}

func knightPreSolve(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	sys, ok := userData.(*PhysicsSystem)
	if !ok || sys == nil {
		return true
	}
	shapeA, shapeB := arb.Shapes()
	_, knightIsA := sys.knightShapes[shapeA]
	other := shapeB
	if !knightIsA {
		if _, okB := sys.knightShapes[shapeB]; !okB {
			return true
		}
		other = shapeA
	}
	slot, ok := sys.shapeSlot[other]
	if !ok {
		return true
	}

	n := arb.Normal()
	if !knightIsA {
		n = n.Neg()
	}
	kind := component.CollisionBrick
	if sys.obstacles[slot] == other {
		kind = component.CollisionObstacle
	}

	sys.touched = true
	sys.feedback.Collisions = append(sys.feedback.Collisions, component.Collision{
		Slot:   slot,
		Kind:   kind,
		Normal: mgl64.Vec3{0, n.Y, -n.X},
	})
	return true
}

func groundPreSolve(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	sys, ok := userData.(*PhysicsSystem)
	if !ok || sys == nil {
		return true
	}
	shapeA, shapeB := arb.Shapes()
	_, sensorIsA := sys.groundShapes[shapeA]
	if !sensorIsA {
		if _, okB := sys.groundShapes[shapeB]; !okB {
			return true
		}
	}
	sys.touched = true

	n := arb.Normal()
	if !sensorIsA {
		n = n.Neg()
	}
	// Only count ground that lies below the feet.
	if n.Y > -0.5 {
		return true
	}
	sys.feedback.Grounded = true
	return true
}

// AddSegment registers the static colliders of seg. Call once per slot.
func (ps *PhysicsSystem) AddSegment(seg component.TrackSegment) {
	if ps == nil {
		return
	}
	for len(ps.bodies) <= seg.Slot {
		ps.bodies = append(ps.bodies, nil)
		ps.bricks = append(ps.bricks, nil)
		ps.obstacles = append(ps.obstacles, nil)
		ps.obstacleOn = append(ps.obstacleOn, false)
	}
	if ps.bodies[seg.Slot] != nil {
		ps.MoveSegment(seg)
		return
	}

	half := ps.tuning.SegmentSize / 2
	body := cp.NewStaticBody()
	body.SetPosition(segmentPosition(seg, ps.tuning))
	ps.space.AddBody(body)

	brick := cp.NewBox2(body, cp.BB{L: -half, B: -ps.tuning.BrickThickness, R: half, T: 0}, 0)
	brick.SetFriction(0)
	brick.SetElasticity(0)
	brick.SetCollisionType(collisionTypeBrick)
	brick.SetFilter(laneFilter(seg.Lane, ps.tuning))
	ps.space.AddShape(brick)

	obstacle := cp.NewBox2(body, cp.BB{L: -half, B: 0, R: half, T: ps.tuning.ObstacleHeight}, 0)
	obstacle.SetFriction(0)
	obstacle.SetElasticity(0)
	obstacle.SetCollisionType(collisionTypeObstacle)
	obstacle.SetFilter(obstacleFilter(seg, ps.tuning))
	ps.space.AddShape(obstacle)

	ps.bodies[seg.Slot] = body
	ps.bricks[seg.Slot] = brick
	ps.obstacles[seg.Slot] = obstacle
	ps.obstacleOn[seg.Slot] = seg.HasObstacle
	ps.shapeSlot[brick] = seg.Slot
	ps.shapeSlot[obstacle] = seg.Slot
}

// MoveSegment repositions a recycled segment and toggles its obstacle.
// Static shapes are only re-indexed when added, so both shapes leave the
// space while the body moves.
func (ps *PhysicsSystem) MoveSegment(seg component.TrackSegment) {
	if ps == nil || seg.Slot < 0 || seg.Slot >= len(ps.bodies) || ps.bodies[seg.Slot] == nil {
		return
	}
	shapes := []*cp.Shape{ps.bricks[seg.Slot], ps.obstacles[seg.Slot]}
	for _, shape := range shapes {
		ps.space.RemoveShape(shape)
	}

	ps.bodies[seg.Slot].SetPosition(segmentPosition(seg, ps.tuning))
	ps.obstacles[seg.Slot].SetFilter(obstacleFilter(seg, ps.tuning))
	ps.obstacleOn[seg.Slot] = seg.HasObstacle

	for _, shape := range shapes {
		ps.space.AddShape(shape)
	}
}

// ShapeActive reports whether shape can collide. Disabled obstacles stay in
// the space with an empty filter.
func (ps *PhysicsSystem) ShapeActive(shape *cp.Shape) bool {
	if ps == nil || shape == nil {
		return false
	}
	slot, ok := ps.shapeSlot[shape]
	if !ok || ps.obstacles[slot] != shape {
		return true
	}
	return ps.obstacleOn[slot]
}

func segmentPosition(seg component.TrackSegment, t component.Tuning) cp.Vector {
	return cp.Vector{X: seg.Distance(t.SegmentSize), Y: seg.HeightOffset}
}

func laneBit(lane int, t component.Tuning) uint {
	return 1 << uint(lane+t.HalfLanes)
}

func laneFilter(lane int, t component.Tuning) cp.ShapeFilter {
	return cp.ShapeFilter{Categories: laneBit(lane, t), Mask: cp.ALL_CATEGORIES}
}

func obstacleFilter(seg component.TrackSegment, t component.Tuning) cp.ShapeFilter {
	if !seg.HasObstacle {
		return cp.ShapeFilter{}
	}
	return laneFilter(seg.Lane, t)
}

// SpawnKnight creates the knight body at pos, or moves it there.
func (ps *PhysicsSystem) SpawnKnight(pos mgl64.Vec3) {
	if ps == nil {
		return
	}
	ps.lateral = pos.X()
	ps.sweep = 0
	ps.desired = cp.Vector{}
	ps.contacted = false
	ps.feedback = component.Feedback{}

	if ps.knight != nil {
		ps.knight.SetPosition(cp.Vector{X: -pos.Z(), Y: pos.Y()})
		ps.knight.SetVelocity(0, 0)
		return
	}

	w := ps.tuning.KnightWidth
	h := ps.tuning.KnightHeight
	r := w / 2

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: -pos.Z(), Y: pos.Y()})
	body.SetVelocityUpdateFunc(ps.knightVelocity)
	ps.space.AddBody(body)

	torso := cp.NewBox2(body, cp.BB{L: -w / 2, B: -h/2 + r, R: w / 2, T: h / 2}, 0)
	feet := cp.NewCircle(body, r, cp.Vector{X: 0, Y: -h/2 + r})
	for _, shape := range []*cp.Shape{torso, feet} {
		shape.SetFriction(0)
		shape.SetElasticity(0)
		shape.SetCollisionType(collisionTypeKnight)
		ps.space.AddShape(shape)
		ps.knightShapes[shape] = struct{}{}
		ps.knightAll = append(ps.knightAll, shape)
	}

	ground := cp.NewBox2(body, cp.BB{L: -w / 4, B: -h/2 - groundSensorDepth, R: w / 4, T: -h/2 + groundSensorDepth}, 0)
	ground.SetSensor(true)
	ground.SetCollisionType(collisionTypeKnightGround)
	ps.space.AddShape(ground)
	ps.groundShapes[ground] = struct{}{}
	ps.knightAll = append(ps.knightAll, ground)

	ps.knight = body
	ps.applyKnightFilter(ps.lateral, ps.lateral)
	ps.logger.Debug("knight body created", zap.Float64("x", pos.X()), zap.Float64("y", pos.Y()))
}

// ApplyDesiredVelocity submits the velocity for the next Step. It is
// installed before the contact solver runs, so the solved velocity moves
// the body on the following Step.
func (ps *PhysicsSystem) ApplyDesiredVelocity(v mgl64.Vec3) {
	if ps == nil || ps.knight == nil {
		return
	}
	ps.desired = cp.Vector{X: -v.Z(), Y: v.Y()}
	ps.sweep = v.X()
}

// knightVelocity replaces gravity integration for the knight body.
func (ps *PhysicsSystem) knightVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	body.SetVelocity(ps.desired.X, ps.desired.Y)
}

func (ps *PhysicsSystem) Step(dt float64) {
	if ps == nil || ps.knight == nil || dt <= 0 {
		return
	}
	ps.feedback = component.Feedback{}
	ps.touched = false

	next := ps.lateral + ps.sweep*dt
	ps.applyKnightFilter(ps.lateral, next)

	ps.space.Step(dt)

	ps.lateral = next
	if ps.touched && !ps.contacted {
		ps.contacted = true
		ps.logger.Debug("knight first contact")
	}
}

// ReadFeedback returns the last step's contacts. ok stays false until the
// knight has touched anything at least once.
func (ps *PhysicsSystem) ReadFeedback() (component.Feedback, bool) {
	if ps == nil || !ps.contacted {
		return component.Feedback{}, false
	}
	fb := ps.feedback
	fb.Collisions = append([]component.Collision(nil), ps.feedback.Collisions...)
	return fb, true
}

func (ps *PhysicsSystem) Translation() mgl64.Vec3 {
	if ps == nil || ps.knight == nil {
		return mgl64.Vec3{}
	}
	p := ps.knight.Position()
	return mgl64.Vec3{ps.lateral, p.Y, -p.X}
}

func (ps *PhysicsSystem) SetLateral(x float64) {
	if ps == nil {
		return
	}
	ps.lateral = x
}

func (ps *PhysicsSystem) applyKnightFilter(a, b float64) {
	filter := cp.ShapeFilter{Categories: cp.ALL_CATEGORIES, Mask: overlappedLanes(a, b, ps.tuning)}
	for _, shape := range ps.knightAll {
		shape.SetFilter(filter)
	}
}

// overlappedLanes returns the category mask of every lane the knight's
// body touches while sweeping laterally from a to b.
func overlappedLanes(a, b float64, t component.Tuning) uint {
	hw := t.KnightWidth / 2
	lo := math.Min(a, b) - hw
	hi := math.Max(a, b) + hw
	w := t.LaneWidth

	first := int(math.Floor((lo-w/2)/w)) + 1
	last := int(math.Ceil((hi+w/2)/w)) - 1
	if first < -t.HalfLanes {
		first = -t.HalfLanes
	}
	if last > t.HalfLanes {
		last = t.HalfLanes
	}

	var mask uint
	for lane := first; lane <= last; lane++ {
		mask |= laneBit(lane, t)
	}
	return mask
}
