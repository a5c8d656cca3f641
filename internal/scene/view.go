package scene

import (
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"blueprint/internal/errors"
	"blueprint/internal/events"
	"blueprint/internal/units"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 5.0
	ZoomStep = 1.2
	// FitMargin is the share of the canvas FitToScreen fills.
	FitMargin = 0.8
)

func (e *Engine) Zoom() float64 { return e.zoom }

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (e *Engine) SetZoom(z float64) {
	if math.IsNaN(z) || z <= 0 {
		z = 1
	}
	e.zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
	e.bus.Publish(events.ViewChanged, e.zoom)
}

func (e *Engine) ZoomIn()    { e.SetZoom(e.zoom * ZoomStep) }
func (e *Engine) ZoomOut()   { e.SetZoom(e.zoom / ZoomStep) }
func (e *Engine) ResetZoom() { e.SetZoom(1) }

// FitToScreen zooms so that every committed shape fits in FitMargin of the
// canvas, then pans to center them. It does nothing for an empty scene or a
// scene with no extent.
func (e *Engine) FitToScreen() bool {
	if len(e.shapes) == 0 {
		return false
	}
	var mp orb.MultiPoint
	for _, s := range e.shapes {
		mp = append(mp, s.Points()...)
	}
	b := mp.Bound()
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if w <= 0 || h <= 0 {
		e.log.Debug("fit to screen: degenerate bounds", slog.Float64("width", w), slog.Float64("height", h))
		return false
	}
	sx := float64(e.width) * FitMargin / w
	sy := float64(e.height) * FitMargin / h
	e.SetZoom(math.Min(math.Min(sx, sy), MaxZoom))

	vw, vh := float64(e.width)/e.zoom, float64(e.height)/e.zoom
	c := b.Center()
	e.grid.SetOffset(vw/2-c[0], vh/2-c[1])
	e.bus.Publish(events.ViewChanged, e.zoom)
	return true
}

// Pan shifts the view by a device-pixel delta.
func (e *Engine) Pan(dx, dy float64) {
	e.grid.Pan(dx/e.zoom, dy/e.zoom)
	e.bus.Publish(events.ViewChanged, e.zoom)
}

// ScreenToWorld maps a device point to world coordinates without snapping.
func (e *Engine) ScreenToWorld(sx, sy float64) (float64, float64) {
	return e.grid.ScreenToGrid(sx/e.zoom, sy/e.zoom)
}

// WorldToScreen maps a world point to device coordinates.
func (e *Engine) WorldToScreen(x, y float64) (float64, float64) {
	vx, vy := e.grid.GridToScreen(x, y)
	return vx * e.zoom, vy * e.zoom
}

// SnapPoint maps a device point to world coordinates, snapping to the grid in
// view space when snapping is on.
func (e *Engine) SnapPoint(sx, sy float64) (float64, float64) {
	vx, vy := e.grid.Snap(sx/e.zoom, sy/e.zoom)
	return e.grid.ScreenToGrid(vx, vy)
}

func (e *Engine) SetSnapToGrid(v bool) { e.grid.SetSnap(v) }

func (e *Engine) SetGridVisible(v bool) {
	e.grid.SetVisible(v)
	e.bus.Publish(events.ViewChanged, e.zoom)
}

func (e *Engine) SetGridSize(size float64) {
	e.grid.SetSize(size)
	e.bus.Publish(events.ViewChanged, e.zoom)
}

func (e *Engine) Scale() units.Scale { return e.scale }

func (e *Engine) SetScale(s units.Scale) {
	e.scale = units.Parse(string(s))
	e.bus.Publish(events.ViewChanged, e.zoom)
}

// FormatLength renders a world length in real units at the current scale.
func (e *Engine) FormatLength(px float64) string {
	return e.scale.Format(px, e.grid.Size())
}

func (e *Engine) Size() (int, int) { return e.width, e.height }

// Resize changes the canvas extent.
func (e *Engine) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.NewNoSurface(width, height)
	}
	e.width, e.height = width, height
	e.bus.Publish(events.ViewChanged, e.zoom)
	return nil
}
