package layer

import (
	"fmt"
	"log/slog"

	"blueprint/internal/errors"
	"blueprint/internal/shape"
)

const (
	DefaultName    = "Default"
	DefaultOpacity = 1.0
)

var palette = []string{"#4a90d9", "#d9534f", "#5cb85c", "#f0ad4e", "#9b59b6", "#1abc9c"}

// Manager owns the layers, their stacking order, the active layer and the
// membership of every shape. A shape is in at most one layer.
type Manager struct {
	layers    map[string]*Layer
	order     []string // index 0 is the topmost layer
	activeID  string
	defaultID string
	nextID    int
	owner     map[string]string // shape id -> layer id
	log       *slog.Logger
}

// NewManager creates a manager holding a single default layer.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{log: logger}
	m.reset()
	return m
}

func (m *Manager) reset() {
	m.layers = map[string]*Layer{}
	m.order = nil
	m.owner = map[string]string{}
	m.activeID = ""
	m.defaultID = ""
	m.CreateLayer(DefaultName)
}

// CreateLayer allocates a new layer and inserts it into the stacking order,
// at the top unless AtIndex says otherwise.
func (m *Manager) CreateLayer(name string, opts ...Option) *Layer {
	o := createOptions{
		visible: true,
		opacity: DefaultOpacity,
		color:   palette[m.nextID%len(palette)],
	}
	for _, opt := range opts {
		opt(&o)
	}

	id := fmt.Sprintf("layer-%d", m.nextID)
	m.nextID++
	if name == "" {
		name = fmt.Sprintf("Layer %d", m.nextID)
	}
	l := &Layer{
		ID:      id,
		Name:    name,
		Visible: o.visible,
		Locked:  o.locked,
		Opacity: o.opacity,
		Color:   o.color,
	}
	m.layers[id] = l

	at := clampIndex(o.index, len(m.order))
	m.order = append(m.order, "")
	copy(m.order[at+1:], m.order[at:])
	m.order[at] = id
	m.renumber()

	if m.defaultID == "" {
		m.defaultID = id
	}
	if m.activeID == "" {
		m.activeID = id
	}
	return l
}

// DeleteLayer removes a layer, handing its shapes to the default layer (or to
// the next layer in order when the default itself goes). The last remaining
// layer cannot be deleted.
func (m *Manager) DeleteLayer(id string) bool {
	l, ok := m.layers[id]
	if !ok {
		m.log.Warn("delete layer: not found", slog.String("layer_id", id))
		return false
	}
	if len(m.layers) == 1 {
		m.log.Warn("delete layer rejected", slog.Any("err", errors.NewLastLayer(id)))
		return false
	}

	targetID := m.defaultID
	if targetID == id {
		for _, other := range m.order {
			if other != id {
				targetID = other
				break
			}
		}
	}
	target := m.layers[targetID]
	for _, s := range l.shapes {
		target.shapes = append(target.shapes, s)
		s.LayerID = target.ID
		m.owner[s.ID] = target.ID
	}
	l.shapes = nil

	delete(m.layers, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.defaultID == id {
		m.defaultID = targetID
	}
	if m.activeID == id {
		m.activeID = m.order[0]
	}
	m.renumber()
	return true
}

// AddShape puts s into layerID, or the active layer when layerID is empty,
// taking it out of whatever layer held it before. Locked or unknown targets
// reject the shape.
func (m *Manager) AddShape(s *shape.Shape, layerID string) bool {
	if layerID == "" {
		layerID = m.activeID
	}
	l, ok := m.layers[layerID]
	if !ok {
		m.log.Warn("add shape: layer not found", slog.String("layer_id", layerID))
		return false
	}
	if l.Locked {
		m.log.Debug("add shape rejected", slog.Any("err", errors.NewLayerLocked(layerID)))
		return false
	}
	m.attach(s, l)
	return true
}

// MoveShapeToLayer moves s to an explicit layer.
func (m *Manager) MoveShapeToLayer(s *shape.Shape, layerID string) bool {
	if layerID == "" {
		return false
	}
	return m.AddShape(s, layerID)
}

func (m *Manager) attach(s *shape.Shape, l *Layer) {
	if cur, ok := m.owner[s.ID]; ok && cur == l.ID && l.indexOf(s.ID) >= 0 {
		s.LayerID = l.ID
		return
	}
	if cur, ok := m.owner[s.ID]; ok {
		if prev, ok := m.layers[cur]; ok {
			prev.remove(s.ID)
		}
	}
	l.shapes = append(l.shapes, s)
	m.owner[s.ID] = l.ID
	s.LayerID = l.ID
}

// RemoveShape drops a shape from its layer.
func (m *Manager) RemoveShape(shapeID string) bool {
	cur, ok := m.owner[shapeID]
	if !ok {
		return false
	}
	delete(m.owner, shapeID)
	if l, ok := m.layers[cur]; ok {
		return l.remove(shapeID)
	}
	return false
}

// LayerOf returns the layer holding the shape, or nil.
func (m *Manager) LayerOf(shapeID string) *Layer {
	if cur, ok := m.owner[shapeID]; ok {
		return m.layers[cur]
	}
	return nil
}

// MoveLayer repositions a layer in the stacking order, clamping newIndex.
func (m *Manager) MoveLayer(id string, newIndex int) bool {
	from := -1
	for i, oid := range m.order {
		if oid == id {
			from = i
			break
		}
	}
	if from < 0 {
		return false
	}
	m.order = append(m.order[:from], m.order[from+1:]...)
	to := clampIndex(newIndex, len(m.order))
	m.order = append(m.order, "")
	copy(m.order[to+1:], m.order[to:])
	m.order[to] = id
	m.renumber()
	return true
}

// Rebind rebuilds membership from each shape's LayerID. Shapes whose layer no
// longer exists go to the default layer. Locks do not apply.
func (m *Manager) Rebind(shapes []*shape.Shape) {
	for _, l := range m.layers {
		l.shapes = nil
	}
	m.owner = make(map[string]string, len(shapes))
	for _, s := range shapes {
		l, ok := m.layers[s.LayerID]
		if !ok {
			l = m.layers[m.defaultID]
		}
		m.attach(s, l)
	}
}

// VisibleShapes returns the shapes of visible layers bottom-to-top, which is
// the draw order.
func (m *Manager) VisibleShapes() []*shape.Shape {
	var out []*shape.Shape
	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.layers[m.order[i]]
		if l.Visible {
			out = append(out, l.shapes...)
		}
	}
	return out
}

// Layers returns the layers in stacking order, topmost first.
func (m *Manager) Layers() []*Layer {
	out := make([]*Layer, len(m.order))
	for i, id := range m.order {
		out[i] = m.layers[id]
	}
	return out
}

func (m *Manager) Get(id string) *Layer { return m.layers[id] }
func (m *Manager) Len() int             { return len(m.order) }
func (m *Manager) ActiveID() string     { return m.activeID }
func (m *Manager) DefaultID() string    { return m.defaultID }
func (m *Manager) Active() *Layer       { return m.layers[m.activeID] }

// SetActive makes id the target for new shapes.
func (m *Manager) SetActive(id string) bool {
	if _, ok := m.layers[id]; !ok {
		return false
	}
	m.activeID = id
	return true
}

func (m *Manager) SetVisible(id string, v bool) bool {
	return m.update(id, func(l *Layer) { l.Visible = v })
}

func (m *Manager) SetLocked(id string, v bool) bool {
	return m.update(id, func(l *Layer) { l.Locked = v })
}

func (m *Manager) SetOpacity(id string, v float64) bool {
	return m.update(id, func(l *Layer) { l.Opacity = clampOpacity(v) })
}

func (m *Manager) Rename(id, name string) bool {
	if name == "" {
		return false
	}
	return m.update(id, func(l *Layer) { l.Name = name })
}

func (m *Manager) update(id string, fn func(*Layer)) bool {
	l, ok := m.layers[id]
	if !ok {
		return false
	}
	fn(l)
	return true
}

func (m *Manager) renumber() {
	for i, id := range m.order {
		m.layers[id].Index = i
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
