package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/knightrun/common"
	"github.com/milk9111/knightrun/system"
)

const (
	debugViewWidth  = 360
	debugViewHeight = 140
	debugViewScale  = 14.0
	debugViewBehind = 6.0
)

// debugDrawPhysics renders the physics plane as a side view in the corner
// of the screen: forward distance to the right, height up.
func debugDrawPhysics(screen *ebiten.Image, physics *system.PhysicsSystem, progress float64) {
	if screen == nil || physics == nil || physics.Space() == nil {
		return
	}
	b := screen.Bounds()
	ox := float32(10)
	oy := float32(b.Dy() - debugViewHeight - 10)
	vector.FillRect(screen, ox, oy, debugViewWidth, debugViewHeight, color.NRGBA{A: 160}, false)

	d := &chipmunkDrawer{
		screen:  screen,
		physics: physics,
		originX: float64(ox) - (progress-debugViewBehind)*debugViewScale,
		originY: float64(oy) + debugViewHeight*0.7,
		minX:    float64(ox),
		maxX:    float64(ox) + debugViewWidth,
	}
	cp.DrawSpace(physics.Space(), d)
}

type chipmunkDrawer struct {
	screen  *ebiten.Image
	physics *system.PhysicsSystem

	originX, originY float64
	minX, maxX       float64
}

func (d *chipmunkDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32(d.originX + v.X*debugViewScale), float32(d.originY - v.Y*debugViewScale)
}

func (d *chipmunkDrawer) line(a, b cp.Vector, c color.RGBA) {
	ax, ay := d.toScreen(a)
	bx, by := d.toScreen(b)
	if math.Max(float64(ax), float64(bx)) < d.minX || math.Min(float64(ax), float64(bx)) > d.maxX {
		return
	}
	vector.StrokeLine(d.screen, ax, ay, bx, by, 1, c, false)
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if d.screen == nil {
		return
	}
	c := fcolorToRGBA(outline)
	steps := 20
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / float64(steps))
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, c)
		prev = cur
	}
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	if d.screen == nil {
		return
	}
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if d.screen == nil {
		return
	}
	d.line(a, b, fcolorToRGBA(outline))
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if d.screen == nil || count == 0 || fill.A == 0 {
		return
	}
	c := fcolorToRGBA(fill)
	for i := 0; i < count; i++ {
		j := (i + 1) % count
		d.line(verts[i], verts[j], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if d.screen == nil {
		return
	}
	c := fcolorToRGBA(fill)
	l := size / 2 / debugViewScale
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, c)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, c)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return debugKnightColor
}

// ShapeColor hides obstacles that are switched off and colours the rest by
// role.
func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	switch {
	case shape == nil:
		return debugKnightColor
	case !d.physics.ShapeActive(shape):
		return cp.FColor{}
	case shape.Sensor():
		return debugSensorColor
	case shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC:
		return debugTrackColor
	default:
		return debugKnightColor
	}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return debugTrackColor
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return debugContactColor
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

var (
	debugKnightColor  = cp.FColor{R: 0.9, G: 0.9, B: 0.9, A: 1}
	debugSensorColor  = cp.FColor{R: 1, G: 0.85, B: 0.2, A: 1}
	debugTrackColor   = cp.FColor{R: 0.4, G: 0.7, B: 1, A: 1}
	debugContactColor = cp.FColor{R: 1, G: 0.1, B: 0.1, A: 1}
)

func fcolorToRGBA(c cp.FColor) color.RGBA {
	channel := func(v float32) uint8 {
		return uint8(common.Clamp(float64(v), 0, 1) * 255)
	}
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}
