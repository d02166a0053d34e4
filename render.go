package main

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/world"
	"golang.org/x/image/colornames"
)

var (
	skyColor        = colornames.Midnightblue
	brickColor      = colornames.Sienna
	brickAltColor   = colornames.Peru
	obstacleColor   = colornames.Firebrick
	knightColor     = colornames.Silver
	knightVisor     = colornames.Gold
	crashTintColor  = color.NRGBA{R: 0x80, G: 0x00, B: 0x00, A: 0x60}
	frontFaceShade  = 0.65
	sideFaceShade   = 0.8
	brickInsetRatio = 0.96
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Renderer draws a world snapshot in perspective. It never touches the
// simulation; it only reads snapshots.
type Renderer struct {
	tuning component.Tuning
	camera *Camera

	vertices []ebiten.Vertex
	indices  []uint16
}

func NewRenderer(tuning component.Tuning, camera *Camera) *Renderer {
	return &Renderer{tuning: tuning, camera: camera}
}

func (r *Renderer) Draw(screen *ebiten.Image, snap world.Snapshot) {
	screen.Fill(skyColor)
	if !snap.Spawned {
		return
	}
	r.camera.Follow(snap.Knight)

	progress := snap.Knight.Progress()
	order := segmentOrder(snap.Segments, r.tuning.SegmentSize, r.camera.x)
	knightDrawn := false
	for _, i := range order {
		seg := snap.Segments[i]
		if !knightDrawn && seg.Distance(r.tuning.SegmentSize) < progress {
			r.drawKnight(screen, snap.Knight)
			knightDrawn = true
		}
		r.drawSegment(screen, seg)
	}
	if !knightDrawn {
		r.drawKnight(screen, snap.Knight)
	}

	if snap.Over {
		b := screen.Bounds()
		vector.FillRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), crashTintColor, false)
	}
}

// segmentOrder returns slot indices far-to-near, and outer lanes before
// inner ones within a row, for painter's ordering.
func segmentOrder(segs []component.TrackSegment, size, cameraX float64) []int {
	order := make([]int, len(segs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := segs[order[a]], segs[order[b]]
		if sa.Row != sb.Row {
			return sa.Row > sb.Row
		}
		return math.Abs(float64(sa.Lane)-cameraX) > math.Abs(float64(sb.Lane)-cameraX)
	})
	return order
}

func (r *Renderer) drawSegment(screen *ebiten.Image, seg component.TrackSegment) {
	t := r.tuning
	x := seg.LateralX(t.LaneWidth)
	z := -seg.Distance(t.SegmentSize)
	halfW := t.LaneWidth / 2 * brickInsetRatio
	halfD := t.SegmentSize / 2 * brickInsetRatio
	top := seg.HeightOffset

	base := brickColor
	if seg.Row%2 != 0 {
		base = brickAltColor
	}
	r.drawBox(screen, x-halfW, x+halfW, top-t.BrickThickness, top, z-halfD, z+halfD, base)

	if seg.HasObstacle {
		r.drawBox(screen, x-halfW*0.8, x+halfW*0.8, top, top+t.ObstacleHeight, z-halfD*0.5, z+halfD*0.5, obstacleColor)
	}
}

func (r *Renderer) drawKnight(screen *ebiten.Image, k component.Knight) {
	t := r.tuning
	p := k.Position
	hw := t.KnightWidth / 2
	hh := t.KnightHeight / 2
	r.drawBox(screen, p.X()-hw, p.X()+hw, p.Y()-hh, p.Y()+hh, p.Z()-hw, p.Z()+hw, knightColor)

	// visor on the back of the helmet, facing the camera
	r.drawQuad(screen, [4]mgl64.Vec3{
		{p.X() - hw*0.7, p.Y() + hh*0.75, p.Z() + hw + 0.01},
		{p.X() + hw*0.7, p.Y() + hh*0.75, p.Z() + hw + 0.01},
		{p.X() + hw*0.7, p.Y() + hh*0.55, p.Z() + hw + 0.01},
		{p.X() - hw*0.7, p.Y() + hh*0.55, p.Z() + hw + 0.01},
	}, knightVisor)
}

// drawBox draws the faces of an axis-aligned box that can face a camera
// sitting behind and above it: the side facing the camera, the top and the
// front (+z) face.
func (r *Renderer) drawBox(screen *ebiten.Image, x0, x1, y0, y1, z0, z1 float64, c color.RGBA) {
	camX := r.camera.x
	if camX < x0 {
		r.drawQuad(screen, [4]mgl64.Vec3{{x0, y1, z0}, {x0, y1, z1}, {x0, y0, z1}, {x0, y0, z0}}, shade(c, sideFaceShade))
	} else if camX > x1 {
		r.drawQuad(screen, [4]mgl64.Vec3{{x1, y1, z1}, {x1, y1, z0}, {x1, y0, z0}, {x1, y0, z1}}, shade(c, sideFaceShade))
	}
	r.drawQuad(screen, [4]mgl64.Vec3{{x0, y1, z0}, {x1, y1, z0}, {x1, y1, z1}, {x0, y1, z1}}, c)
	r.drawQuad(screen, [4]mgl64.Vec3{{x0, y1, z1}, {x1, y1, z1}, {x1, y0, z1}, {x0, y0, z1}}, shade(c, frontFaceShade))
}

func (r *Renderer) drawQuad(screen *ebiten.Image, corners [4]mgl64.Vec3, c color.RGBA) {
	var path vector.Path
	for i, p := range corners {
		x, y, ok := r.camera.Project(p)
		if !ok {
			return
		}
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()

	r.vertices, r.indices = path.AppendVerticesAndIndicesForFilling(r.vertices[:0], r.indices[:0])
	cr, cg, cb, ca := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	for i := range r.vertices {
		r.vertices[i].SrcX = 1
		r.vertices[i].SrcY = 1
		r.vertices[i].ColorR = cr
		r.vertices[i].ColorG = cg
		r.vertices[i].ColorB = cb
		r.vertices[i].ColorA = ca
	}
	screen.DrawTriangles(r.vertices, r.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
