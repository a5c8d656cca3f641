// Package interact turns pointer input and the current tool into provisional
// and committed shapes.
package interact

import (
	"log/slog"

	"blueprint/internal/errors"
	"blueprint/internal/events"
	"blueprint/internal/scene"
	"blueprint/internal/shape"
)

// State is the machine's editing state.
type State int

const (
	Idle State = iota
	Drawing
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

type drag struct {
	id             string
	lastX, lastY   float64
	totalX, totalY float64
}

// Machine drives one editing session against an engine. Pointer coordinates
// are device pixels; the machine maps them through the engine's view.
type Machine struct {
	engine *scene.Engine
	tool   Tool
	style  shape.Style
	text   func() string

	state       State
	provisional *shape.Shape
	drag        drag

	log *slog.Logger
}

// New creates a machine with the select tool active.
func New(engine *scene.Engine, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{engine: engine, tool: ToolSelect, log: logger}
}

func (m *Machine) Tool() Tool                { return m.tool }
func (m *Machine) State() State              { return m.state }
func (m *Machine) Style() shape.Style        { return m.style }
func (m *Machine) Provisional() *shape.Shape { return m.provisional }

// SetTool switches tools, abandoning any stroke in progress. Unknown tools
// are logged and leave the current tool in place.
func (m *Machine) SetTool(name string) error {
	t := Tool(name)
	if !t.Valid() {
		err := errors.NewUnknownTool(name)
		m.log.Warn("set tool", slog.Any("err", err))
		return err
	}
	m.PointerLeave()
	m.tool = t
	if t != ToolSelect {
		m.engine.Select("")
	}
	m.engine.Bus().Publish(events.ToolChanged, t)
	return nil
}

// SetStyle sets the style applied to new shapes. Empty fields keep the kind
// defaults.
func (m *Machine) SetStyle(s shape.Style) { m.style = s }

// SetTextSource sets the callback asked for the content of new text labels.
func (m *Machine) SetTextSource(fn func() string) { m.text = fn }

// PointerDown starts a stroke, or with the select tool picks the topmost
// shape under the pointer and starts dragging it.
func (m *Machine) PointerDown(sx, sy float64) {
	if m.state != Idle {
		m.PointerLeave()
	}
	if m.tool == ToolSelect {
		m.beginDrag(sx, sy)
		return
	}

	kind, _ := m.tool.Kind()
	m.engine.BeginStroke()
	x, y := m.engine.SnapPoint(sx, sy)
	s := shape.New(kind, x, y, m.style)
	if s == nil {
		m.log.Warn("pointer down", slog.Any("err", errors.NewUnknownShape(string(kind))))
		return
	}
	if kind == shape.KindText && m.text != nil {
		if text := m.text(); text != "" {
			s.Text = text
		}
	}
	m.provisional = s
	m.state = Drawing
	m.engine.Bus().Publish(events.Redraw, nil)
}

func (m *Machine) beginDrag(sx, sy float64) {
	wx, wy := m.engine.ScreenToWorld(sx, sy)
	hit := m.engine.Pick(wx, wy)
	if hit == nil {
		m.engine.Select("")
		m.engine.Bus().Publish(events.Redraw, nil)
		return
	}
	m.engine.Select(hit.ID)
	m.engine.Bus().Publish(events.Redraw, nil)
	if l := m.engine.Layers().LayerOf(hit.ID); l != nil && l.Locked {
		return
	}
	m.engine.BeginStroke()
	x, y := m.engine.SnapPoint(sx, sy)
	m.drag = drag{id: hit.ID, lastX: x, lastY: y}
	m.state = Dragging
}

// PointerMove stretches the provisional shape, or moves the dragged one.
func (m *Machine) PointerMove(sx, sy float64) {
	switch m.state {
	case Drawing:
		x, y := m.engine.SnapPoint(sx, sy)
		m.provisional.SetTerminal(x, y)
	case Dragging:
		s := m.engine.Get(m.drag.id)
		if s == nil {
			m.state = Idle
			return
		}
		x, y := m.engine.SnapPoint(sx, sy)
		dx, dy := x-m.drag.lastX, y-m.drag.lastY
		if dx == 0 && dy == 0 {
			return
		}
		s.Translate(dx, dy)
		m.drag.lastX, m.drag.lastY = x, y
		m.drag.totalX += dx
		m.drag.totalY += dy
	default:
		return
	}
	m.engine.Bus().Publish(events.Redraw, nil)
}

// PointerUp finishes the stroke. A provisional shape big enough to keep is
// committed and returned; anything else returns nil.
func (m *Machine) PointerUp(sx, sy float64) *shape.Shape {
	switch m.state {
	case Drawing:
		m.PointerMove(sx, sy)
		s := m.provisional
		m.provisional = nil
		m.state = Idle
		defer m.engine.Bus().Publish(events.Redraw, nil)
		if !s.Valid() {
			m.log.Debug("discarding undersized shape", slog.String("kind", string(s.Kind)))
			return nil
		}
		s.Normalize()
		if !m.engine.AddShape(s) {
			return nil
		}
		return s
	case Dragging:
		m.PointerMove(sx, sy)
		m.state = Idle
		if m.drag.totalX != 0 || m.drag.totalY != 0 {
			m.engine.Checkpoint()
			if s := m.engine.Get(m.drag.id); s != nil {
				m.engine.Bus().Publish(events.ShapeChanged, s)
			}
		}
		m.drag = drag{}
	}
	return nil
}

// PointerLeave abandons the stroke in progress. A drag is moved back to where
// it started.
func (m *Machine) PointerLeave() {
	switch m.state {
	case Drawing:
		m.provisional = nil
	case Dragging:
		if s := m.engine.Get(m.drag.id); s != nil {
			s.Translate(-m.drag.totalX, -m.drag.totalY)
		}
		m.drag = drag{}
	default:
		return
	}
	m.state = Idle
	m.engine.Bus().Publish(events.Redraw, nil)
}

// Render draws the scene with the provisional shape on top.
func (m *Machine) Render(dc shape.Surface) {
	m.engine.Render(dc, m.provisional)
}
