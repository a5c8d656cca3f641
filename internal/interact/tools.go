package interact

import "blueprint/internal/shape"

// Tool identifies what a pointer press does.
type Tool string

const (
	ToolSelect      Tool = "select"
	ToolWall        Tool = "wall"
	ToolDoor        Tool = "door"
	ToolWindow      Tool = "window"
	ToolRoom        Tool = "room"
	ToolText        Tool = "text"
	ToolMeasurement Tool = "measurement"
	ToolRectangle   Tool = "rectangle"
	ToolCircle      Tool = "circle"
	ToolLine        Tool = "line"
)

var toolKinds = map[Tool]shape.Kind{
	ToolWall:        shape.KindWall,
	ToolDoor:        shape.KindDoor,
	ToolWindow:      shape.KindWindow,
	ToolRoom:        shape.KindRoom,
	ToolText:        shape.KindText,
	ToolMeasurement: shape.KindMeasurement,
	ToolRectangle:   shape.KindRectangle,
	ToolCircle:      shape.KindCircle,
	ToolLine:        shape.KindLine,
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{
		ToolSelect, ToolWall, ToolDoor, ToolWindow, ToolRoom,
		ToolText, ToolMeasurement, ToolRectangle, ToolCircle, ToolLine,
	}
}

// Kind returns the shape kind a drawing tool produces.
func (t Tool) Kind() (shape.Kind, bool) {
	k, ok := toolKinds[t]
	return k, ok
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	if t == ToolSelect {
		return true
	}
	_, ok := toolKinds[t]
	return ok
}
