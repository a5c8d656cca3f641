// Package grid snaps pointer coordinates and draws the background grid.
package grid

import (
	"image/color"
	"math"

	"blueprint/internal/shape"
)

const (
	DefaultSize = 20.0
	// MajorEvery is the number of minor cells per major cell.
	MajorEvery = 5
)

var (
	minorColor  = color.NRGBA{R: 0xe4, G: 0xe8, B: 0xee, A: 0xff}
	majorColor  = color.NRGBA{R: 0xc4, G: 0xcc, B: 0xd8, A: 0xff}
	originColor = color.NRGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xff}
)

// Grid holds spacing, visibility, snapping and the pan offset.
type Grid struct {
	size    float64
	visible bool
	snap    bool
	offsetX float64
	offsetY float64
}

// New creates a visible, snapping grid with the given minor spacing.
func New(size float64) *Grid {
	g := &Grid{visible: true, snap: true}
	g.SetSize(size)
	return g
}

func (g *Grid) Size() float64      { return g.size }
func (g *Grid) MajorSize() float64 { return g.size * MajorEvery }
func (g *Grid) Visible() bool      { return g.visible }
func (g *Grid) SnapEnabled() bool  { return g.snap }

func (g *Grid) Offset() (float64, float64) { return g.offsetX, g.offsetY }

// SetSize changes the minor spacing; non-positive sizes fall back to 1.
func (g *Grid) SetSize(size float64) {
	if size < 1 || math.IsNaN(size) {
		size = 1
	}
	g.size = size
}

func (g *Grid) SetVisible(v bool) { g.visible = v }
func (g *Grid) SetSnap(v bool)    { g.snap = v }

func (g *Grid) SetOffset(x, y float64) {
	g.offsetX, g.offsetY = x, y
}

// Pan shifts the offset by (dx, dy).
func (g *Grid) Pan(dx, dy float64) {
	g.offsetX += dx
	g.offsetY += dy
}

// Snap rounds a point to the nearest minor grid intersection, relative to the
// pan offset. It is the identity when snapping is off.
func (g *Grid) Snap(x, y float64) (float64, float64) {
	if !g.snap {
		return x, y
	}
	return g.round(x, y, g.size)
}

// MajorSnap is Snap at major spacing.
func (g *Grid) MajorSnap(x, y float64) (float64, float64) {
	if !g.snap {
		return x, y
	}
	return g.round(x, y, g.MajorSize())
}

func (g *Grid) round(x, y, step float64) (float64, float64) {
	return math.Round((x-g.offsetX)/step)*step + g.offsetX,
		math.Round((y-g.offsetY)/step)*step + g.offsetY
}

// ScreenToGrid removes the pan offset.
func (g *Grid) ScreenToGrid(x, y float64) (float64, float64) {
	return x - g.offsetX, y - g.offsetY
}

// GridToScreen applies the pan offset.
func (g *Grid) GridToScreen(x, y float64) (float64, float64) {
	return x + g.offsetX, y + g.offsetY
}

// Draw renders minor then major lines across a width×height extent, then the
// origin cross when the origin is inside it.
func (g *Grid) Draw(dc shape.Surface, width, height float64) {
	if !g.visible || width <= 0 || height <= 0 {
		return
	}
	dc.Push()
	defer dc.Pop()
	dc.SetDash()

	g.lines(dc, g.size, width, height, minorColor, 0.5)
	g.lines(dc, g.MajorSize(), width, height, majorColor, 1)

	ox, oy := g.offsetX, g.offsetY
	if ox >= 0 && ox <= width && oy >= 0 && oy <= height {
		const arm = 10.0
		dc.DrawLine(ox-arm, oy, ox+arm, oy)
		dc.DrawLine(ox, oy-arm, ox, oy+arm)
		dc.SetColor(originColor)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
}

func (g *Grid) lines(dc shape.Surface, step, width, height float64, c color.Color, lw float64) {
	startX := math.Mod(g.offsetX, step)
	if startX < 0 {
		startX += step
	}
	startY := math.Mod(g.offsetY, step)
	if startY < 0 {
		startY += step
	}
	for x := startX; x <= width; x += step {
		dc.DrawLine(x, 0, x, height)
	}
	for y := startY; y <= height; y += step {
		dc.DrawLine(0, y, width, y)
	}
	dc.SetColor(c)
	dc.SetLineWidth(lw)
	dc.Stroke()
}
