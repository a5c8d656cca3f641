package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

// handlePan shifts the view by whole cells.
func (m *model) handlePan(key string, speed int) tea.Model {
	dx, dy := 0, 0
	switch key {
	case "left", "shift+left":
		dx = speed
	case "right", "shift+right":
		dx = -speed
	case "up", "shift+up":
		dy = speed
	case "down", "shift+down":
		dy = -speed
	}
	m.engine.Pan(float64(dx*charWidth), float64(dy*charHeight))
	return m
}

// handleCursorMove moves the keyboard pointer. While a stroke is held the
// move is forwarded to the interaction machine.
func (m *model) handleCursorMove(key string, speed int) tea.Model {
	switch key {
	case "left", "shift+left":
		m.cursorX -= speed
	case "right", "shift+right":
		m.cursorX += speed
	case "up", "shift+up":
		m.cursorY -= speed
	case "down", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	if m.pressed {
		m.machine.PointerMove(m.cursorPixel())
	}
	return m
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	cols, rows := m.canvasSize()
	if m.cursorX >= cols {
		m.cursorX = cols - 1
	}
	if m.cursorY >= rows {
		m.cursorY = rows - 1
	}
}

// canvasSize is the cell area left for the drawing, one row for the status
// line.
func (m *model) canvasSize() (int, int) {
	cols, rows := m.width, m.height-1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// cursorPixel is the device pixel at the center of the cursor cell.
func (m *model) cursorPixel() (float64, float64) {
	return cellPixel(m.cursorX, m.cursorY)
}

func cellPixel(col, row int) (float64, float64) {
	return float64(col*charWidth + charWidth/2), float64(row*charHeight + charHeight/2)
}
