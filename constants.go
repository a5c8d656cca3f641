package main

import "blueprint/internal/interact"

type Mode int

const (
	ModeNormal Mode = iota
	ModeTextInput
	ModeFileInput
	ModeLayers
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmClear
	ConfirmDeleteLayer
)

const (
	// pixels per terminal cell; the canvas is rasterized at this resolution
	charWidth  = 8
	charHeight = 16

	projectExt = ".json"
	logName    = "blueprint.log"
)

// toolKeys maps a key to the tool it activates.
var toolKeys = map[string]interact.Tool{
	"v": interact.ToolSelect,
	"w": interact.ToolWall,
	"d": interact.ToolDoor,
	"i": interact.ToolWindow,
	"r": interact.ToolRoom,
	"t": interact.ToolText,
	"m": interact.ToolMeasurement,
	"b": interact.ToolRectangle,
	"c": interact.ToolCircle,
	"l": interact.ToolLine,
}
