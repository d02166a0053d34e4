package component

import "github.com/go-gl/mathgl/mgl64"

// Direction is the knight's in-flight movement.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	default:
		return "unknown"
	}
}

// Horizontal reports whether d is a lane change.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Knight is the player-controlled runner.
//
// Position.X is the lateral lane axis, Position.Y is vertical and the knight
// runs toward -Z, so forward progress is -Position.Z.
type Knight struct {
	Position mgl64.Vec3

	Lane            int
	TargetLane      int
	MovingDirection Direction

	UpSpeed  float64
	Grounded bool
	// Grace is the remaining grounded grace window in seconds.
	Grace float64
}

// NewKnight places a knight at the center of lane 0.
func NewKnight(y float64) *Knight {
	return &Knight{Position: mgl64.Vec3{0, y, 0}}
}

// Progress returns the distance travelled along the forward axis.
func (k *Knight) Progress() float64 {
	if k == nil {
		return 0
	}
	return -k.Position.Z()
}
