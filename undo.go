package main

import "fmt"

func (m *model) undo() {
	if m.pressed {
		m.cancelStroke()
	}
	if !m.engine.Undo() {
		m.errorMessage = "Nothing to undo"
		return
	}
	m.successMessage = m.historyStatus("Undo")
}

func (m *model) redo() {
	if m.pressed {
		m.cancelStroke()
	}
	if !m.engine.Redo() {
		m.errorMessage = "Nothing to redo"
		return
	}
	m.successMessage = m.historyStatus("Redo")
}

func (m *model) historyStatus(verb string) string {
	return fmt.Sprintf("%s (%d/%d)", verb, m.engine.HistoryIndex()+1, m.engine.HistoryLen())
}

func (m *model) cancelStroke() {
	m.machine.PointerLeave()
	m.pressed = false
}
