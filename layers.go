package main

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"blueprint/internal/layer"
)

func (m *model) activeLayerIndex() int {
	active := m.engine.Layers().ActiveID()
	for i, l := range m.engine.Layers().Layers() {
		if l.ID == active {
			return i
		}
	}
	return 0
}

func (m *model) selectedLayerRef() *layer.Layer {
	layers := m.engine.Layers().Layers()
	if len(layers) == 0 {
		return nil
	}
	if m.selectedLayer >= len(layers) {
		m.selectedLayer = len(layers) - 1
	}
	if m.selectedLayer < 0 {
		m.selectedLayer = 0
	}
	return layers[m.selectedLayer]
}

func (m model) handleLayersKey(key string) (tea.Model, tea.Cmd) {
	l := m.selectedLayerRef()
	if l == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch key {
	case "esc", "L", "q":
		m.mode = ModeNormal
	case "up":
		if m.selectedLayer > 0 {
			m.selectedLayer--
		}
	case "down":
		if m.selectedLayer < m.engine.Layers().Len()-1 {
			m.selectedLayer++
		}
	case "enter", " ":
		m.engine.UpdateLayer(l.ID, (*layer.Manager).SetActive)
		m.successMessage = fmt.Sprintf("Drawing on %q", l.Name)
	case "n":
		created := m.engine.CreateLayer("", layer.AtIndex(m.selectedLayer))
		m.selectedLayer = created.Index
		m.successMessage = fmt.Sprintf("Created %q", created.Name)
	case "x":
		if m.engine.Layers().Len() == 1 {
			m.errorMessage = "Cannot delete the last layer"
			return m, nil
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDeleteLayer
	case "v":
		visible := !l.Visible
		m.engine.UpdateLayer(l.ID, func(lm *layer.Manager, id string) bool { return lm.SetVisible(id, visible) })
	case "k":
		locked := !l.Locked
		m.engine.UpdateLayer(l.ID, func(lm *layer.Manager, id string) bool { return lm.SetLocked(id, locked) })
	case "+", "=", "-":
		step := 0.1
		if key == "-" {
			step = -step
		}
		opacity := math.Round((l.Opacity+step)*10) / 10
		m.engine.UpdateLayer(l.ID, func(lm *layer.Manager, id string) bool { return lm.SetOpacity(id, opacity) })
	case "K", "J":
		to := m.selectedLayer - 1
		if key == "J" {
			to = m.selectedLayer + 1
		}
		if m.engine.UpdateLayer(l.ID, func(lm *layer.Manager, id string) bool { return lm.MoveLayer(id, to) }) {
			m.selectedLayer = l.Index
		}
	case "m":
		s := m.engine.Selected()
		if s == nil {
			m.errorMessage = "No shape selected"
			return m, nil
		}
		if !m.engine.MoveShapeToLayer(s.ID, l.ID) {
			m.errorMessage = fmt.Sprintf("Layer %q is locked", l.Name)
			return m, nil
		}
		m.successMessage = fmt.Sprintf("Moved %s to %q", s.Kind, l.Name)
	}
	return m, nil
}

func (m *model) deleteSelectedLayer() {
	l := m.selectedLayerRef()
	if l == nil {
		return
	}
	if !m.engine.DeleteLayer(l.ID) {
		m.errorMessage = "Cannot delete the last layer"
		return
	}
	m.successMessage = fmt.Sprintf("Deleted %q", l.Name)
	if m.selectedLayer >= m.engine.Layers().Len() {
		m.selectedLayer = m.engine.Layers().Len() - 1
	}
}
