package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/logging"
	"github.com/milk9111/knightrun/system"
	"go.uber.org/zap"
)

var ErrNotSpawned = errors.New("world: knight not spawned")

// MotionController is the physics collaborator the knight moves through.
type MotionController interface {
	AddSegment(seg component.TrackSegment)
	MoveSegment(seg component.TrackSegment)
	SpawnKnight(pos mgl64.Vec3)
	ApplyDesiredVelocity(v mgl64.Vec3)
	Step(dt float64)
	// ReadFeedback reports false until the first contact has been observed.
	ReadFeedback() (component.Feedback, bool)
	Translation() mgl64.Vec3
	SetLateral(x float64)
}

// CrashReason says why a run ended.
type CrashReason string

const (
	CrashNone     CrashReason = ""
	CrashObstacle CrashReason = "obstacle"
	CrashFell     CrashReason = "fell"
)

// Stats summarise the current run.
type Stats struct {
	Ticks       int64
	Distance    float64
	LaneChanges int
	Jumps       int
	Recycled    int64
}

// Snapshot is a read-only copy of the simulation for presentation.
type Snapshot struct {
	Spawned  bool
	Knight   component.Knight
	Segments []component.TrackSegment
	Over     bool
	Reason   CrashReason
	Stats    Stats
}

// World runs the fixed-step simulation of one session.
type World struct {
	tuning component.Tuning
	logger *zap.Logger
	seed   uint64

	generator system.SegmentGenerator
	motion    MotionController
	track     *system.TrackSystem
	lanes     *system.LaneSystem
	input     *system.InputMapper

	knight     *component.Knight
	feedback   component.Feedback
	feedbackOK bool

	over   bool
	reason CrashReason
	stats  Stats
	events EventQueue
}

// New builds the track and registers every segment with the motion
// controller. The knight is not spawned yet.
func New(tuning component.Tuning, opts ...Option) (*World, error) {
	if err := checkTuning(tuning); err != nil {
		return nil, err
	}

	w := &World{tuning: tuning}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.logger = logging.OrNop(w.logger)

	if w.generator == nil {
		w.generator = system.NewRandomGenerator(system.GeneratorConfigFromTuning(tuning, w.seed))
	}
	if w.motion == nil {
		w.motion = system.NewPhysicsSystem(tuning, w.logger)
	}

	w.track = system.NewTrackSystem(tuning, w.generator, w.logger)
	w.lanes = system.NewLaneSystem(tuning, w.logger)
	w.input = system.NewInputMapper()

	for _, seg := range w.track.Segments() {
		w.motion.AddSegment(seg)
	}
	return w, nil
}

func checkTuning(t component.Tuning) error {
	switch {
	case t.Rows <= 0:
		return fmt.Errorf("world: invalid tuning: rows must be positive, got %d", t.Rows)
	case t.BackRows < 0 || t.BackRows >= t.Rows:
		return fmt.Errorf("world: invalid tuning: back rows %d outside [0, %d)", t.BackRows, t.Rows)
	case t.HalfLanes < 0:
		return fmt.Errorf("world: invalid tuning: half lanes must not be negative, got %d", t.HalfLanes)
	case t.LaneWidth <= 0 || t.SegmentSize <= 0:
		return fmt.Errorf("world: invalid tuning: lane width and segment size must be positive")
	}
	return nil
}

// Spawn places the knight in lane 0 above the spawn row.
func (w *World) Spawn() {
	if w == nil {
		return
	}
	w.knight = component.NewKnight(w.tuning.SpawnHeight)
	w.motion.SpawnKnight(w.knight.Position)
	w.input = system.NewInputMapper()
	w.feedback, w.feedbackOK = component.Feedback{}, false
	w.over, w.reason = false, CrashNone
	w.stats = Stats{}
	w.events.flush()

	w.logger.Info("knight spawned",
		zap.Float64("height", w.tuning.SpawnHeight),
		zap.Int("lanes", w.tuning.LaneCount()))
}

// Tick advances the simulation by one fixed step. It does nothing before
// Spawn or after the run has ended.
func (w *World) Tick(raw component.RawInput) {
	if w == nil || w.knight == nil || w.over {
		return
	}
	k := w.knight
	dt := w.tuning.StepDuration()
	w.stats.Ticks++

	cmd := w.input.Map(raw)

	prevDir := k.MovingDirection
	velocity := w.lanes.Step(k, cmd, w.feedback, w.feedbackOK, dt)
	w.recordTransition(prevDir, k)

	w.motion.ApplyDesiredVelocity(velocity)
	w.motion.Step(dt)
	w.feedback, w.feedbackOK = w.motion.ReadFeedback()

	// The lane state machine owns the lateral axis.
	t := w.motion.Translation()
	k.Position = mgl64.Vec3{k.Position.X(), t.Y(), t.Z()}
	w.motion.SetLateral(k.Position.X())

	for _, slot := range w.track.Recycle(k.Progress()) {
		if seg, ok := w.track.Segment(slot); ok {
			w.motion.MoveSegment(seg)
		}
	}

	w.stats.Distance = k.Progress()
	w.stats.Recycled = w.track.Recycled()

	w.detectCrash()
}

// ResetInput treats the controls held in raw as already pressed, so keys
// held through a pause do not fire when ticking resumes.
func (w *World) ResetInput(raw component.RawInput) {
	if w == nil {
		return
	}
	w.input.Reset(raw)
}

func (w *World) recordTransition(prev component.Direction, k *component.Knight) {
	next := k.MovingDirection
	if next == prev {
		return
	}
	switch {
	case next.Horizontal():
		w.stats.LaneChanges++
		w.events.Push(Event{Kind: EventLaneChange, Tick: w.stats.Ticks, Lane: k.TargetLane})
	case next == component.DirectionUp:
		w.stats.Jumps++
		w.events.Push(Event{Kind: EventJump, Tick: w.stats.Ticks, Lane: k.Lane})
	case prev == component.DirectionUp:
		w.events.Push(Event{Kind: EventLanded, Tick: w.stats.Ticks, Lane: k.Lane})
	}
}

func (w *World) detectCrash() {
	reason := CrashNone
	if w.feedbackOK {
		for _, c := range w.feedback.Collisions {
			// Front faces push back along the forward axis; tops push up.
			if c.Kind == component.CollisionObstacle && math.Abs(c.Normal.Z()) > 0.5 {
				reason = CrashObstacle
				break
			}
		}
	}
	if reason == CrashNone && w.knight.Position.Y() < w.tuning.FallLimit {
		reason = CrashFell
	}
	if reason == CrashNone {
		return
	}

	w.over = true
	w.reason = reason
	w.events.Push(Event{Kind: EventCrash, Tick: w.stats.Ticks, Lane: w.knight.Lane})
	w.logger.Info("run over",
		zap.String("reason", string(reason)),
		zap.Float64("distance", w.stats.Distance),
		zap.Int64("ticks", w.stats.Ticks),
		zap.Int("jumps", w.stats.Jumps),
		zap.Int("lane_changes", w.stats.LaneChanges))
}

// Knight returns a copy of the knight.
func (w *World) Knight() (component.Knight, error) {
	if w == nil || w.knight == nil {
		return component.Knight{}, ErrNotSpawned
	}
	return *w.knight, nil
}

func (w *World) Over() bool {
	return w != nil && w.over
}

func (w *World) Reason() CrashReason {
	if w == nil {
		return CrashNone
	}
	return w.reason
}

func (w *World) Stats() Stats {
	if w == nil {
		return Stats{}
	}
	return w.stats
}

func (w *World) Tuning() component.Tuning {
	return w.tuning
}

// Events drains the events emitted since the last call.
func (w *World) Events() []Event {
	if w == nil {
		return nil
	}
	return w.events.Drain()
}

func (w *World) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Spawned:  w.knight != nil,
		Segments: w.track.Segments(),
		Over:     w.over,
		Reason:   w.reason,
		Stats:    w.stats,
	}
	if w.knight != nil {
		snap.Knight = *w.knight
	}
	return snap
}
