package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/knightrun/common"
	"github.com/milk9111/knightrun/component"
)

const (
	cameraHeight   = 4.5
	cameraDistance = 7.0
	cameraLookAt   = 12.0
	cameraFollowX  = 0.6
	cameraFollowY  = 0.3
	cameraNear     = 0.1
	cameraFar      = 400.0
)

// Camera follows the knight from behind and projects world points onto the
// logical screen.
type Camera struct {
	screenW int
	screenH int

	// smoothing factor (0..1). higher -> faster follow.
	smooth float64

	x, y float64
	z    float64

	projection mgl64.Mat4
	view       mgl64.Mat4
	viewProj   mgl64.Mat4
}

func NewCamera(screenW, screenH int) *Camera {
	c := &Camera{screenW: screenW, screenH: screenH, smooth: 0.15}
	c.projection = mgl64.Perspective(mgl64.DegToRad(60), float64(screenW)/float64(screenH), cameraNear, cameraFar)
	c.updateView()
	return c
}

// Follow eases toward the knight laterally and vertically; the forward
// axis tracks it exactly so the knight never drifts on screen.
func (c *Camera) Follow(k component.Knight) {
	c.x = common.Lerp(c.x, k.Position.X()*cameraFollowX, c.smooth)
	c.y = common.Lerp(c.y, math.Max(0, k.Position.Y())*cameraFollowY, c.smooth)
	c.z = k.Position.Z()
	c.updateView()
}

// Snap jumps straight to the knight, used on spawn.
func (c *Camera) Snap(k component.Knight) {
	c.x = k.Position.X() * cameraFollowX
	c.y = math.Max(0, k.Position.Y()) * cameraFollowY
	c.z = k.Position.Z()
	c.updateView()
}

func (c *Camera) updateView() {
	eye := mgl64.Vec3{c.x, cameraHeight + c.y, c.z + cameraDistance}
	center := mgl64.Vec3{c.x, c.y + 0.5, c.z - cameraLookAt}
	c.view = mgl64.LookAtV(eye, center, mgl64.Vec3{0, 1, 0})
	c.viewProj = c.projection.Mul4(c.view)
}

// Project maps p to screen pixels. ok is false for points behind the near
// plane.
func (c *Camera) Project(p mgl64.Vec3) (float32, float32, bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	if clip.W() < cameraNear {
		return 0, 0, false
	}
	win := mgl64.Project(p, c.view, c.projection, 0, 0, c.screenW, c.screenH)
	return float32(win.X()), float32(float64(c.screenH) - win.Y()), true
}

// Depth returns the view-space distance of p in front of the camera.
func (c *Camera) Depth(p mgl64.Vec3) float64 {
	return -c.view.Mul4x1(p.Vec4(1)).Z()
}
