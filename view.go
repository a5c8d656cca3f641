package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"blueprint/internal/shape"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2b3a55"))
	modeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2b3a55")).Background(lipgloss.Color("#f0ad4e"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d9534f"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5cb85c"))
	selectStyle  = lipgloss.NewStyle().Reverse(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

var helpLines = []string{
	"Blueprint Help",
	"==============",
	"",
	"Drawing:",
	"--------",
	"  arrows           Move the pointer (shift: 4x faster)",
	"  space/enter      Press, then press again to release",
	"  mouse            Click and drag on the canvas",
	"  esc              Cancel stroke, clear selection",
	"",
	"Tools:",
	"------",
	"  v  select/move   w  wall      d  door       i  window",
	"  r  room          t  text      m  measure    b  rectangle",
	"  c  circle        l  line",
	"",
	"Editing:",
	"--------",
	"  x                Delete selected shape",
	"  X                Clear drawing",
	"  u / U            Undo / redo",
	"",
	"View:",
	"-----",
	"  z                Toggle pan mode for the arrows",
	"  + / - / 0        Zoom in / out / reset",
	"  f                Fit drawing to screen",
	"  g / G            Toggle grid / snap",
	"  [ / ]            Halve / double grid size",
	"  M                Cycle drawing scale",
	"",
	"Layers (L):",
	"-----------",
	"  up/down          Choose layer",
	"  enter            Make active",
	"  n / x            New / delete",
	"  v / k            Toggle visible / locked",
	"  + / -            Opacity",
	"  K / J            Raise / lower",
	"  m                Move selected shape here",
	"",
	"Files:",
	"------",
	"  s                Save project",
	"  S                Export PNG",
	"  o                Open project",
	"  y                Copy project JSON to clipboard",
	"",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	cols, rows := m.canvasSize()

	var body []string
	switch {
	case m.mode == ModeLayers || (m.mode == ModeConfirm && m.confirmAction == ConfirmDeleteLayer):
		body = m.layersView(cols)
	case m.mode == ModeFileInput && m.fileOp == FileOpOpen:
		body = m.fileListView(cols)
	default:
		body = renderCanvas(m.engine, m.machine.Provisional(), cols, rows, m.cursorX, m.cursorY)
	}
	for len(body) < rows {
		body = append(body, "")
	}
	if len(body) > rows {
		body = body[:rows]
	}

	var result strings.Builder
	for _, line := range body {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine(cols))
	return result.String()
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		if m.zPanMode {
			return "PAN"
		}
		return strings.ToUpper(string(m.machine.Tool()))
	case ModeTextInput:
		return "TEXT"
	case ModeFileInput:
		return "FILE"
	case ModeLayers:
		return "LAYERS"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine(width int) string {
	left := modeStyle.Render(" " + m.modeString() + " ")

	var info string
	switch m.mode {
	case ModeTextInput:
		info = " Label: " + withCursor(m.textInput, m.textCursorPos)
	case ModeFileInput:
		prompt := "Save as"
		switch m.fileOp {
		case FileOpSavePNG:
			prompt = "Export PNG as"
		case FileOpOpen:
			prompt = "Open"
		}
		info = fmt.Sprintf(" %s: %s", prompt, withCursor(m.textInput, m.textCursorPos))
	case ModeConfirm:
		info = " " + m.confirmPrompt() + " (y/n)"
	default:
		info = " " + m.summary()
	}

	msg := ""
	switch {
	case m.errorMessage != "":
		msg = " " + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		msg = " " + successStyle.Render(m.successMessage)
	}

	line := left + statusStyle.Render(info) + msg
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

func (m model) summary() string {
	parts := []string{}
	if l := m.engine.Layers().Active(); l != nil {
		name := l.Name
		if l.Locked {
			name += " (locked)"
		}
		parts = append(parts, name)
	}
	parts = append(parts,
		fmt.Sprintf("%.0f%%", m.engine.Zoom()*100),
		fmt.Sprintf("grid %g snap %s", m.engine.Grid().Size(), onOff(m.engine.Grid().SnapEnabled())),
		string(m.engine.Scale()),
		fmt.Sprintf("%d shapes", m.engine.Len()),
	)
	if p := m.machine.Provisional(); p != nil && p.Class() == shape.ClassLine {
		parts = append(parts, m.engine.FormatLength(p.Length()))
	}
	if m.filename != "" {
		name := stripExt(m.filename)
		if m.tracker.dirty {
			name += "*"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " | ")
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Unsaved changes. Quit anyway?"
	case ConfirmClear:
		return "Clear the whole drawing?"
	case ConfirmDeleteLayer:
		if l := m.selectedLayerRef(); l != nil {
			return fmt.Sprintf("Delete layer %q? Its shapes move to another layer.", l.Name)
		}
	}
	return "Are you sure?"
}

func (m model) layersView(width int) []string {
	lines := []string{"Layers (top first):", strings.Repeat("─", width)}
	active := m.engine.Layers().ActiveID()
	for i, l := range m.engine.Layers().Layers() {
		marker := " "
		if l.ID == active {
			marker = "*"
		}
		flags := ""
		if !l.Visible {
			flags += " hidden"
		}
		if l.Locked {
			flags += " locked"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("■")
		row := fmt.Sprintf("%s %s %-20s %3.0f%% %4d shapes%s", marker, swatch, l.Name, l.Opacity*100, l.Len(), flags)
		if i == m.selectedLayer {
			row = selectStyle.Render(row)
		} else if !l.Visible {
			row = dimStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return lines
}

func (m model) fileListView(width int) []string {
	lines := []string{"Select a saved project:", strings.Repeat("─", width)}
	if len(m.fileList) == 0 {
		return append(lines, fmt.Sprintf("(No %s files found in %s)", projectExt, m.saveDir()))
	}
	_, rows := m.canvasSize()
	maxFiles := rows - len(lines)
	if maxFiles < 1 {
		maxFiles = 1
	}
	start := 0
	if m.selectedFileIndex >= maxFiles {
		start = m.selectedFileIndex - maxFiles + 1
	}
	for i := start; i < len(m.fileList) && i < start+maxFiles; i++ {
		row := "  " + stripExt(m.fileList[i])
		if i == m.selectedFileIndex {
			row = selectStyle.Render("> " + stripExt(m.fileList[i]))
		}
		lines = append(lines, row)
	}
	return lines
}

func (m model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	end := start + visibleHeight
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return strings.Join(helpLines[start:end], "\n") + "\n" + dimStyle.Render("up/down to scroll, any other key to close")
}

func withCursor(s string, pos int) string {
	r := []rune(s)
	if pos < 0 || pos > len(r) {
		pos = len(r)
	}
	return string(r[:pos]) + "█" + string(r[pos:])
}
