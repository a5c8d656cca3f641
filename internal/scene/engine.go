// Package scene owns the committed shapes of a drawing, their undo history and
// the view transform, and keeps layer membership in step with both.
package scene

import (
	"log/slog"

	"blueprint/internal/errors"
	"blueprint/internal/events"
	"blueprint/internal/grid"
	"blueprint/internal/history"
	"blueprint/internal/layer"
	"blueprint/internal/shape"
	"blueprint/internal/units"
)

// Options configures a new Engine.
type Options struct {
	// Width and Height are the canvas extent in device pixels.
	Width, Height int
	// Capacity bounds the undo history; 0 means history.DefaultCapacity.
	Capacity int
	GridSize float64
	Scale    units.Scale
	Bus      *events.Bus
	Logger   *slog.Logger
}

// Engine is the scene and history core. It is not safe for concurrent use;
// every mutation is expected on the UI goroutine.
type Engine struct {
	shapes  []*shape.Shape
	history *history.History[[]*shape.Shape]
	layers  *layer.Manager
	grid    *grid.Grid

	zoom          float64
	scale         units.Scale
	width, height int

	bus *events.Bus
	log *slog.Logger
}

// New creates an engine with an empty scene and a single default layer. It
// fails when the canvas extent is not positive.
func New(opts Options) (*Engine, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.NewNoSurface(opts.Width, opts.Height)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.GridSize <= 0 {
		opts.GridSize = grid.DefaultSize
	}
	if opts.Scale == "" {
		opts.Scale = units.DefaultScale
	}
	e := &Engine{
		shapes:  []*shape.Shape{},
		history: history.New(opts.Capacity, shape.CloneAll),
		layers:  layer.NewManager(opts.Logger),
		grid:    grid.New(opts.GridSize),
		zoom:    1,
		scale:   units.Parse(string(opts.Scale)),
		width:   opts.Width,
		height:  opts.Height,
		bus:     opts.Bus,
		log:     opts.Logger,
	}
	e.history.Push(e.shapes)
	return e, nil
}

// Shapes returns the committed shapes in commit order. The slice is a copy but
// the shapes are live; do not hold on to them across undo or redo.
func (e *Engine) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, len(e.shapes))
	copy(out, e.shapes)
	return out
}

func (e *Engine) Len() int { return len(e.shapes) }

// Get returns the committed shape with the given id, or nil.
func (e *Engine) Get(id string) *shape.Shape {
	if i := e.indexOf(id); i >= 0 {
		return e.shapes[i]
	}
	return nil
}

func (e *Engine) indexOf(id string) int {
	for i, s := range e.shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) Layers() *layer.Manager { return e.layers }
func (e *Engine) Grid() *grid.Grid       { return e.grid }
func (e *Engine) Bus() *events.Bus       { return e.bus }

// Checkpoint pushes a snapshot when the live shapes differ from the snapshot
// under the history cursor. It reports whether a snapshot was taken.
func (e *Engine) Checkpoint() bool {
	if cur, ok := e.history.Peek(); ok && shape.EqualAll(cur, e.shapes) {
		return false
	}
	e.history.Push(e.shapes)
	e.bus.Publish(events.HistoryChanged, e.history.Index())
	return true
}

// BeginStroke records the pre-stroke scene so that undoing the coming commit
// returns exactly here.
func (e *Engine) BeginStroke() {
	e.Checkpoint()
}

// AddShape commits s to the active layer (or to s.LayerID when set) and to the
// scene, then records a snapshot. If the layer refuses the shape nothing
// changes and AddShape returns false.
func (e *Engine) AddShape(s *shape.Shape) bool {
	if s == nil || !shape.Known(s.Kind) {
		kind := ""
		if s != nil {
			kind = string(s.Kind)
		}
		e.log.Warn("add shape rejected", slog.Any("err", errors.NewUnknownShape(kind)))
		return false
	}
	if e.indexOf(s.ID) >= 0 {
		e.log.Warn("add shape rejected: duplicate id", slog.String("shape_id", s.ID))
		return false
	}
	e.Checkpoint()
	if !e.layers.AddShape(s, s.LayerID) {
		return false
	}
	s.Selected = false
	e.shapes = append(e.shapes, s)
	e.history.Push(e.shapes)
	e.bus.Publish(events.ShapeAdded, s)
	e.bus.Publish(events.HistoryChanged, e.history.Index())
	return true
}

// RemoveShape deletes a committed shape.
func (e *Engine) RemoveShape(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	if l := e.layers.LayerOf(id); l != nil && l.Locked {
		e.log.Debug("remove shape rejected", slog.Any("err", errors.NewLayerLocked(l.ID)))
		return false
	}
	e.Checkpoint()
	s := e.shapes[i]
	e.layers.RemoveShape(id)
	e.shapes = append(e.shapes[:i:i], e.shapes[i+1:]...)
	e.history.Push(e.shapes)
	e.bus.Publish(events.ShapeRemoved, s)
	e.bus.Publish(events.HistoryChanged, e.history.Index())
	return true
}

// Mutate applies fn to a committed shape and records the result as one
// undoable step.
func (e *Engine) Mutate(id string, fn func(*shape.Shape)) bool {
	s := e.Get(id)
	if s == nil {
		return false
	}
	e.Checkpoint()
	fn(s)
	if e.Checkpoint() {
		e.bus.Publish(events.ShapeChanged, s)
	}
	return true
}

// MoveShapeToLayer reassigns a committed shape to another layer.
func (e *Engine) MoveShapeToLayer(id, layerID string) bool {
	s := e.Get(id)
	if s == nil {
		return false
	}
	e.Checkpoint()
	if !e.layers.MoveShapeToLayer(s, layerID) {
		return false
	}
	e.Checkpoint()
	e.bus.Publish(events.LayerChanged, layerID)
	return true
}

// Undo restores the previous snapshot. It is a no-op at the start of history.
func (e *Engine) Undo() bool {
	shapes, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.replace(shapes)
	return true
}

// Redo restores the next snapshot. It is a no-op at the end of history.
func (e *Engine) Redo() bool {
	shapes, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.replace(shapes)
	return true
}

func (e *Engine) replace(shapes []*shape.Shape) {
	e.shapes = shapes
	e.layers.Rebind(e.shapes)
	// Rebind moves shapes off layers deleted since the snapshot was taken.
	if head, ok := e.history.Peek(); ok && !shape.EqualAll(head, e.shapes) {
		e.history.Replace(e.shapes)
	}
	e.bus.Publish(events.HistoryChanged, e.history.Index())
}

func (e *Engine) CanUndo() bool     { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool     { return e.history.CanRedo() }
func (e *Engine) HistoryLen() int   { return e.history.Len() }
func (e *Engine) HistoryIndex() int { return e.history.Index() }

// Clear empties the scene as an undoable step.
func (e *Engine) Clear() {
	e.Checkpoint()
	e.shapes = []*shape.Shape{}
	e.layers.Rebind(e.shapes)
	e.history.Push(e.shapes)
	e.bus.Publish(events.SceneCleared, nil)
	e.bus.Publish(events.HistoryChanged, e.history.Index())
}

// Select marks the shape with id as selected and clears every other
// selection. An empty id clears all.
func (e *Engine) Select(id string) {
	for _, s := range e.shapes {
		s.Selected = s.ID == id && id != ""
	}
}

// Selected returns the selected shape, or nil.
func (e *Engine) Selected() *shape.Shape {
	for _, s := range e.shapes {
		if s.Selected {
			return s
		}
	}
	return nil
}

// Pick returns the topmost visible shape under the world point: visible
// shapes are scanned in reverse draw order.
func (e *Engine) Pick(x, y float64) *shape.Shape {
	visible := e.layers.VisibleShapes()
	for i := len(visible) - 1; i >= 0; i-- {
		s := visible[i]
		if s.Visible && s.Contains(x, y) {
			return s
		}
	}
	return nil
}
