package shape

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"golang.org/x/image/font"

	"blueprint/internal/errors"
)

// Surface is the drawing target. *gg.Context satisfies it.
type Surface interface {
	Push()
	Pop()
	Identity()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(x, y float64)
	TransformPoint(x, y float64) (float64, float64)

	SetColor(c color.Color)
	SetLineWidth(w float64)
	SetDash(dashes ...float64)
	SetFontFace(f font.Face)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	ClearPath()
	DrawLine(x1, y1, x2, y2 float64)
	DrawRectangle(x, y, w, h float64)
	DrawCircle(x, y, r float64)
	DrawArc(x, y, r, angle1, angle2 float64)
	Stroke()
	Fill()
	FillPreserve()
	DrawStringAnchored(s string, x, y, ax, ay float64)
}

var _ Surface = (*gg.Context)(nil)

// HandleSize is the side of a selection handle in device pixels.
const HandleSize = 8.0

// DrawOptions carries per-frame rendering parameters.
type DrawOptions struct {
	// Alpha multiplies every color; 0 is treated as fully opaque.
	Alpha float64
	// FormatLength renders a world length for measurement labels.
	FormatLength func(px float64) string
	// HideSelection suppresses selection handles, for exports.
	HideSelection bool
}

func (o DrawOptions) alpha() float64 {
	if o.Alpha <= 0 || o.Alpha > 1 {
		return 1
	}
	return o.Alpha
}

// Draw renders the shape with its pose applied, followed by selection handles.
func (s *Shape) Draw(dc Surface, opts DrawOptions) error {
	b := lookup(s.Kind)
	if b == nil || b.Draw == nil {
		return errors.NewUnknownShape(string(s.Kind))
	}
	if !s.Visible {
		return nil
	}
	dc.Push()
	defer dc.Pop()
	dc.Translate(s.X, s.Y)
	if s.Rotation != 0 {
		dc.Rotate(gg.Radians(s.Rotation))
	}
	k := s.scaleFactor()
	dc.Scale(k, k)
	b.Draw(dc, s, opts)
	if s.Selected && !opts.HideSelection {
		drawHandles(dc, s.Bounds())
	}
	return nil
}

// drawHandles places fixed-size squares on the bound corners in device space.
func drawHandles(dc Surface, bound orb.Bound) {
	corners := [][2]float64{
		{bound.Min[0], bound.Min[1]},
		{bound.Max[0], bound.Min[1]},
		{bound.Max[0], bound.Max[1]},
		{bound.Min[0], bound.Max[1]},
	}
	pts := make([][2]float64, len(corners))
	for i, c := range corners {
		x, y := dc.TransformPoint(c[0], c[1])
		pts[i] = [2]float64{x, y}
	}
	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.SetDash()
	for _, p := range pts {
		dc.DrawRectangle(p[0]-HandleSize/2, p[1]-HandleSize/2, HandleSize, HandleSize)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(color.NRGBA{R: 0x1e, G: 0x6f, B: 0xe8, A: 0xff})
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

// deviceScale is the length of a unit vector after the current transform.
func deviceScale(dc Surface) float64 {
	x0, y0 := dc.TransformPoint(0, 0)
	x1, y1 := dc.TransformPoint(1, 0)
	return math.Hypot(x1-x0, y1-y0)
}

// strokeWith strokes the current path with a world-space line width. A shape
// without a stroke color just drops the path.
func strokeWith(dc Surface, hex string, width float64, opts DrawOptions) {
	c, ok := parseColor(hex, opts.alpha())
	if !ok {
		dc.ClearPath()
		return
	}
	if width <= 0 {
		width = 1
	}
	dc.SetColor(c)
	dc.SetLineWidth(width * deviceScale(dc))
	dc.Stroke()
}

func fillWith(dc Surface, hex string, opts DrawOptions) {
	c, ok := parseColor(hex, opts.alpha())
	if !ok {
		return
	}
	dc.SetColor(c)
	dc.FillPreserve()
}

func drawWall(dc Surface, s *Shape, opts DrawOptions) {
	dx, dy := s.X2-s.X, s.Y2-s.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := s.Thickness / 2
	nx, ny := -dy/length*half, dx/length*half
	dc.MoveTo(nx, ny)
	dc.LineTo(dx+nx, dy+ny)
	dc.LineTo(dx-nx, dy-ny)
	dc.LineTo(-nx, -ny)
	dc.ClosePath()
	fillWith(dc, s.Fill, opts)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)
}

func drawLine(dc Surface, s *Shape, opts DrawOptions) {
	dc.DrawLine(0, 0, s.X2-s.X, s.Y2-s.Y)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)
}

func drawMeasurement(dc Surface, s *Shape, opts DrawOptions) {
	dx, dy := s.X2-s.X, s.Y2-s.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dc.DrawLine(0, 0, dx, dy)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)

	const tick = 6.0
	nx, ny := -dy/length*tick, dx/length*tick
	dc.DrawLine(nx, ny, -nx, -ny)
	dc.DrawLine(dx+nx, dy+ny, dx-nx, dy-ny)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)

	label := fmt.Sprintf("%.0f px", length*s.scaleFactor())
	if opts.FormatLength != nil {
		label = opts.FormatLength(length * s.scaleFactor())
	}
	c, ok := parseColor(s.Stroke, opts.alpha())
	if !ok {
		return
	}
	size := s.FontSize
	if size <= 0 {
		size = 12
	}
	dc.SetFontFace(Face(size))
	dc.SetColor(c)
	dc.DrawStringAnchored(label, dx/2-nx*0.8, dy/2-ny*0.8, 0.5, 0.5)
}

func drawRectangle(dc Surface, s *Shape, opts DrawOptions) {
	dc.DrawRectangle(0, 0, s.Width, s.Height)
	fillWith(dc, s.Fill, opts)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)
}

func drawCircle(dc Surface, s *Shape, opts DrawOptions) {
	dc.DrawCircle(0, 0, s.Radius)
	fillWith(dc, s.Fill, opts)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)
}

func drawWindow(dc Surface, s *Shape, opts DrawOptions) {
	drawRectangle(dc, s, opts)
	dc.DrawLine(0, s.Height/2, s.Width, s.Height/2)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)
}

// drawDoor draws the frame, the open leaf and its dashed swing arc.
func drawDoor(dc Surface, s *Shape, opts DrawOptions) {
	drawRectangle(dc, s, opts)
	w := s.Width
	leaf := math.Copysign(math.Abs(w), s.Height)
	if leaf == 0 {
		return
	}
	dc.DrawLine(0, 0, 0, leaf)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)

	a1, a2 := math.Atan2(leaf, 0), math.Atan2(0, w)
	if a2 < a1 {
		a1, a2 = a2, a1
	}
	if a2-a1 > math.Pi {
		a1, a2 = a2, a1+2*math.Pi
	}
	dc.SetDash(4*deviceScale(dc), 4*deviceScale(dc))
	dc.DrawArc(0, 0, math.Abs(w), a1, a2)
	strokeWith(dc, s.Stroke, s.StrokeWidth, opts)
	dc.SetDash()
}

func drawRoom(dc Surface, s *Shape, opts DrawOptions) {
	drawRectangle(dc, s, opts)
	if s.Text == "" {
		return
	}
	c, ok := parseColor(s.Stroke, opts.alpha())
	if !ok {
		return
	}
	dc.SetFontFace(Face(s.FontSize))
	dc.SetColor(c)
	dc.DrawStringAnchored(s.Text, s.Width/2, s.Height/2, 0.5, 0.5)
}

func drawText(dc Surface, s *Shape, opts DrawOptions) {
	c, ok := parseColor(s.Stroke, opts.alpha())
	if !ok {
		c, _ = parseColor("#000000", opts.alpha())
	}
	dc.SetFontFace(Face(s.FontSize))
	dc.SetColor(c)
	dc.DrawStringAnchored(s.Text, 0, 0, 0, 1)
}
