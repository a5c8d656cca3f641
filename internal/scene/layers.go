package scene

import (
	"blueprint/internal/events"
	"blueprint/internal/layer"
)

// CreateLayer adds a layer and makes it active.
func (e *Engine) CreateLayer(name string, opts ...layer.Option) *layer.Layer {
	l := e.layers.CreateLayer(name, opts...)
	e.layers.SetActive(l.ID)
	e.bus.Publish(events.LayerChanged, l.ID)
	return l
}

// DeleteLayer removes a layer. Its shapes change owner, so the reassignment
// is recorded in history.
func (e *Engine) DeleteLayer(id string) bool {
	if !e.layers.DeleteLayer(id) {
		return false
	}
	e.Checkpoint()
	e.bus.Publish(events.LayerChanged, id)
	return true
}

// UpdateLayer applies fn to the layer manager and announces the change. It is
// for settings that do not touch shapes: visibility, lock, opacity, name,
// order and the active layer.
func (e *Engine) UpdateLayer(id string, fn func(m *layer.Manager, id string) bool) bool {
	if !fn(e.layers, id) {
		return false
	}
	e.bus.Publish(events.LayerChanged, id)
	return true
}
