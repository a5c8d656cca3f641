package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"blueprint/internal/events"
	"blueprint/internal/interact"
	"blueprint/internal/project"
	"blueprint/internal/scene"
)

type editorOptions struct {
	config      *Config
	store       *project.Store
	logger      *slog.Logger
	doc         *project.Document
	filename    string
	projectName string
}

// changeTracker survives the model being copied by the update loop.
type changeTracker struct {
	dirty bool
}

func newModel(opts editorOptions) (model, error) {
	if opts.config == nil {
		opts.config = defaultConfig()
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	bus := events.NewBus()
	engine, err := scene.New(scene.Options{
		Width:    80 * charWidth,
		Height:   23 * charHeight,
		Capacity: opts.config.History,
		GridSize: opts.config.GridSize,
		Scale:    opts.config.Scale,
		Bus:      bus,
		Logger:   opts.logger,
	})
	if err != nil {
		return model{}, err
	}
	engine.SetSnapToGrid(opts.config.Snap)

	m := model{
		engine:      engine,
		machine:     interact.New(engine, opts.logger),
		bus:         bus,
		config:      opts.config,
		store:       opts.store,
		log:         opts.logger,
		filename:    opts.filename,
		projectName: opts.projectName,
		tracker:     &changeTracker{},
		width:       80,
		height:      24,
	}
	m.machine.SetStyle(opts.config.Style)
	if err := m.machine.SetTool(string(interact.ToolWall)); err != nil {
		return model{}, err
	}

	if opts.doc != nil {
		report, err := engine.ImportData(opts.doc)
		if err != nil {
			return model{}, err
		}
		m.successMessage = importStatus(report)
	}

	tracker := m.tracker
	for _, topic := range []events.Topic{
		events.ShapeAdded, events.ShapeRemoved, events.ShapeChanged,
		events.SceneCleared, events.HistoryChanged, events.LayerChanged,
	} {
		bus.Subscribe(topic, func(events.Event) { tracker.dirty = true })
	}
	bus.Subscribe(events.SceneLoaded, func(events.Event) { tracker.dirty = false })
	return m, nil
}

func importStatus(r scene.ImportReport) string {
	if len(r.Skipped) == 0 {
		return fmt.Sprintf("Loaded %d shapes", r.Loaded)
	}
	return fmt.Sprintf("Loaded %d shapes, skipped %d unknown", r.Loaded, len(r.Skipped))
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cols, rows := m.canvasSize()
		if err := m.engine.Resize(cols*charWidth, rows*charHeight); err != nil {
			m.log.Warn("resize", slog.Any("err", err))
		}
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case savedMsg:
		m.tracker.dirty = false
		m.successMessage = "Saved " + filepath.Base(msg.path)
		return m, nil
	case exportedMsg:
		m.successMessage = "Exported " + filepath.Base(msg.path)
		return m, nil
	case copiedMsg:
		m.successMessage = "Project copied to clipboard"
		return m, nil
	case loadedMsg:
		report, err := m.engine.ImportData(msg.doc)
		if err != nil {
			m.errorMessage = "Load failed: " + err.Error()
			return m, nil
		}
		m.filename = msg.filename
		m.projectName = stripExt(msg.filename)
		m.successMessage = importStatus(report)
		return m, nil
	case errMsg:
		m.log.Error("command failed", slog.Any("err", msg.err))
		m.errorMessage = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		m.errorMessage = ""
		m.successMessage = ""
		if m.help {
			return m.handleHelpKey(msg.String())
		}
		switch m.mode {
		case ModeTextInput:
			return m.handleTextInputKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeLayers:
			return m.handleLayersKey(msg.String())
		case ModeConfirm:
			return m.handleConfirmKey(msg.String())
		}
		return m.handleNormalKey(msg.String())
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.help {
		return m, nil
	}
	cols, rows := m.canvasSize()
	inside := msg.X >= 0 && msg.X < cols && msg.Y >= 0 && msg.Y < rows
	if inside {
		m.cursorX, m.cursorY = msg.X, msg.Y
	}
	x, y := m.cursorPixel()

	switch msg.Type {
	case tea.MouseLeft:
		if !inside {
			return m, nil
		}
		if m.pressed {
			m.machine.PointerMove(x, y)
			return m, nil
		}
		m.pointerDown()
	case tea.MouseMotion:
		if !m.pressed {
			return m, nil
		}
		if !inside {
			m.cancelStroke()
			m.errorMessage = "Stroke cancelled"
			return m, nil
		}
		m.machine.PointerMove(x, y)
	case tea.MouseRelease:
		if m.pressed {
			m.pointerUp()
		}
	case tea.MouseWheelUp:
		m.engine.ZoomIn()
	case tea.MouseWheelDown:
		m.engine.ZoomOut()
	}
	return m, nil
}

// pointerDown presses at the cursor. The text tool asks for the label first.
func (m *model) pointerDown() {
	x, y := m.cursorPixel()
	if m.machine.Tool() == interact.ToolText {
		m.pendingTextX, m.pendingTextY = x, y
		m.textInput = ""
		m.textCursorPos = 0
		m.mode = ModeTextInput
		return
	}
	m.machine.PointerDown(x, y)
	m.pressed = m.machine.State() != interact.Idle
}

func (m *model) pointerUp() {
	x, y := m.cursorPixel()
	committed := m.machine.PointerUp(x, y)
	m.pressed = false
	if committed != nil {
		m.successMessage = fmt.Sprintf("Added %s", committed.Kind)
	} else if m.machine.Tool() != interact.ToolSelect {
		if l := m.engine.Layers().Active(); l != nil && l.Locked {
			m.errorMessage = fmt.Sprintf("Layer %q is locked", l.Name)
		}
	}
}

// placeText commits a text label at the position captured by pointerDown.
func (m *model) placeText(text string) {
	m.machine.SetTextSource(func() string { return text })
	m.machine.PointerDown(m.pendingTextX, m.pendingTextY)
	if s := m.machine.PointerUp(m.pendingTextX, m.pendingTextY); s != nil {
		m.successMessage = "Added text"
	}
	m.machine.SetTextSource(nil)
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	if tool, ok := toolKeys[key]; ok {
		if m.pressed {
			m.cancelStroke()
		}
		if err := m.machine.SetTool(string(tool)); err != nil {
			m.errorMessage = err.Error()
		}
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.tracker.dirty {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		return m.handleNavigation(key, m.getMoveSpeed(key))
	case "z":
		m.zPanMode = !m.zPanMode
	case " ", "enter":
		if m.pressed {
			m.pointerUp()
		} else {
			m.pointerDown()
		}
	case "esc":
		if m.pressed {
			m.cancelStroke()
		}
		m.engine.Select("")
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+r", "ctrl+y":
		m.redo()
	case "x", "delete", "backspace":
		if s := m.engine.Selected(); s != nil {
			if m.engine.RemoveShape(s.ID) {
				m.successMessage = fmt.Sprintf("Deleted %s", s.Kind)
			} else {
				m.errorMessage = "Shape is on a locked layer"
			}
		}
	case "X":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClear
	case "g":
		m.engine.SetGridVisible(!m.engine.Grid().Visible())
	case "G":
		m.engine.SetSnapToGrid(!m.engine.Grid().SnapEnabled())
		m.successMessage = fmt.Sprintf("Snap %s", onOff(m.engine.Grid().SnapEnabled()))
	case "+", "=":
		m.engine.ZoomIn()
	case "-", "_":
		m.engine.ZoomOut()
	case "0":
		m.engine.ResetZoom()
	case "f":
		if !m.engine.FitToScreen() {
			m.errorMessage = "Nothing to fit"
		}
	case "[":
		m.engine.SetGridSize(m.engine.Grid().Size() / 2)
	case "]":
		m.engine.SetGridSize(m.engine.Grid().Size() * 2)
	case "M":
		m.engine.SetScale(m.engine.Scale().Next())
		m.successMessage = "Scale " + string(m.engine.Scale())
	case "L":
		m.mode = ModeLayers
		m.selectedLayer = m.activeLayerIndex()
	case "y":
		return m, copyDocument(m.engine.ExportData())
	case "s":
		m.startFileInput(FileOpSave)
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "o":
		m.startFileInput(FileOpOpen)
	}
	return m, nil
}

func (m model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) handleTextInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
	case "enter":
		m.mode = ModeNormal
		m.placeText(m.textInput)
	case "backspace":
		m.textInput, m.textCursorPos = deleteBefore(m.textInput, m.textCursorPos)
	case "left":
		if m.textCursorPos > 0 {
			m.textCursorPos--
		}
	case "right":
		if m.textCursorPos < len([]rune(m.textInput)) {
			m.textCursorPos++
		}
	case "ctrl+v":
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = "Clipboard: " + err.Error()
			return m, nil
		}
		m.textInput, m.textCursorPos = insertAt(m.textInput, m.textCursorPos, firstLine(text))
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.textInput, m.textCursorPos = insertAt(m.textInput, m.textCursorPos, string(msg.Runes))
		}
	}
	return m, nil
}

func (m *model) startFileInput(op FileOperation) {
	if m.pressed {
		m.cancelStroke()
	}
	m.mode = ModeFileInput
	m.fileOp = op
	m.textInput = m.projectName
	m.fileList = nil
	m.selectedFileIndex = -1
	if op == FileOpOpen {
		m.fileList = scanProjectFiles(m.saveDir())
		if len(m.fileList) > 0 {
			m.selectedFileIndex = 0
			m.textInput = stripExt(m.fileList[0])
		}
	}
	m.textCursorPos = len([]rune(m.textInput))
}

func (m *model) saveDir() string {
	if m.config.SaveDirectory != "" {
		return m.config.SaveDirectory
	}
	return "."
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil
	case "up":
		if m.fileOp == FileOpOpen && m.selectedFileIndex > 0 {
			m.selectedFileIndex--
			m.textInput = stripExt(m.fileList[m.selectedFileIndex])
			m.textCursorPos = len([]rune(m.textInput))
		}
		return m, nil
	case "down":
		if m.fileOp == FileOpOpen && m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
			m.textInput = stripExt(m.fileList[m.selectedFileIndex])
			m.textCursorPos = len([]rune(m.textInput))
		}
		return m, nil
	case "enter":
		return m.finishFileInput()
	}
	return m.handleTextInputKey(msg)
}

func (m model) finishFileInput() (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	name := stripExt(m.textInput)
	if name == "" {
		m.errorMessage = "No filename given"
		return m, nil
	}

	switch m.fileOp {
	case FileOpSave:
		path := m.config.GetSavePath(withExt(name, projectExt))
		m.filename = path
		m.projectName = name
		return m, saveProject(path, m.engine.ExportData(), m.store, name)
	case FileOpSavePNG:
		img, err := m.engine.ExportImage()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		return m, exportPNG(m.config.GetSavePath(withExt(name, ".png")), img)
	case FileOpOpen:
		return m, loadProject(m.config.GetSavePath(withExt(name, projectExt)))
	}
	return m, nil
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	action := m.confirmAction
	m.mode = ModeNormal
	if key != "y" && key != "Y" {
		if action == ConfirmDeleteLayer {
			m.mode = ModeLayers
		}
		return m, nil
	}
	switch action {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmClear:
		m.engine.Clear()
		m.successMessage = "Cleared (u to undo)"
	case ConfirmDeleteLayer:
		m.mode = ModeLayers
		m.deleteSelectedLayer()
	}
	return m, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
