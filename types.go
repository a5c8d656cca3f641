package main

import (
	"log/slog"

	"blueprint/internal/events"
	"blueprint/internal/interact"
	"blueprint/internal/project"
	"blueprint/internal/scene"
)

type model struct {
	width  int
	height int

	cursorX  int
	cursorY  int
	zPanMode bool
	pressed  bool

	engine  *scene.Engine
	machine *interact.Machine
	bus     *events.Bus
	config  *Config
	store   *project.Store
	log     *slog.Logger

	filename    string
	projectName string
	tracker     *changeTracker

	mode              Mode
	help              bool
	helpScroll        int
	fileOp            FileOperation
	fileList          []string
	selectedFileIndex int
	confirmAction     ConfirmAction

	textInput     string
	textCursorPos int
	pendingTextX  float64
	pendingTextY  float64

	selectedLayer int

	errorMessage   string
	successMessage string
}

// Messages returned by commands that run off the update loop.
type (
	savedMsg struct {
		path string
	}
	exportedMsg struct {
		path string
	}
	loadedMsg struct {
		filename string
		doc      *project.Document
	}
	copiedMsg struct{}
	errMsg    struct {
		err error
	}
)
