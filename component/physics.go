package component

import "github.com/go-gl/mathgl/mgl64"

// CollisionKind identifies what the knight touched.
type CollisionKind int

const (
	CollisionBrick CollisionKind = iota + 1
	CollisionObstacle
)

func (k CollisionKind) String() string {
	switch k {
	case CollisionBrick:
		return "brick"
	case CollisionObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Collision is one contact reported by the physics collaborator.
type Collision struct {
	Slot int
	Kind CollisionKind
	// Normal points from the knight toward the touched segment, in world space.
	Normal mgl64.Vec3
}

// Feedback is the physics outcome of a single step.
type Feedback struct {
	Grounded   bool
	Collisions []Collision
}
