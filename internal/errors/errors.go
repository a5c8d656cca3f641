package errors

import "fmt"

// Code identifies a class of blueprint error.
type Code string

const (
	CodeInvalidFormat   Code = "INVALID_FORMAT"    // malformed project document
	CodeUnknownShape    Code = "UNKNOWN_SHAPE"     // serialized shape with an unregistered type
	CodeUnknownTool     Code = "UNKNOWN_TOOL"      // tool id with no shape kind behind it
	CodeLastLayer       Code = "LAST_LAYER"        // deleting the only remaining layer
	CodeLayerLocked     Code = "LAYER_LOCKED"      // writing into a locked layer
	CodeNotFound        Code = "NOT_FOUND"         // layer, shape or stored project missing
	CodeNoSurface       Code = "NO_SURFACE"        // engine created without a drawable extent
	CodeNothingToExport Code = "NOTHING_TO_EXPORT" // raster export of an empty scene
	CodeInternal        Code = "INTERNAL"
)

// Error is a structured error with a code and optional details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidFormat wraps a document parse failure.
func NewInvalidFormat(err error) *Error {
	msg := "invalid format"
	if err != nil {
		msg = fmt.Sprintf("invalid format: %v", err)
	}
	return &Error{
		Code:    CodeInvalidFormat,
		Message: msg,
		Err:     err,
	}
}

// NewUnknownShape reports a serialized shape whose type has no decoder.
func NewUnknownShape(kind string) *Error {
	return &Error{
		Code:    CodeUnknownShape,
		Message: fmt.Sprintf("unknown shape type %q", kind),
		Details: map[string]any{"type": kind},
	}
}

// NewUnknownTool reports a tool id the interaction layer does not know.
func NewUnknownTool(tool string) *Error {
	return &Error{
		Code:    CodeUnknownTool,
		Message: fmt.Sprintf("unknown tool %q", tool),
		Details: map[string]any{"tool": tool},
	}
}

// NewLastLayer reports an attempt to delete the sole remaining layer.
func NewLastLayer(id string) *Error {
	return &Error{
		Code:    CodeLastLayer,
		Message: "cannot delete last layer",
		Details: map[string]any{"layer_id": id},
	}
}

// NewLayerLocked reports a write into a locked layer.
func NewLayerLocked(id string) *Error {
	return &Error{
		Code:    CodeLayerLocked,
		Message: fmt.Sprintf("layer %s is locked", id),
		Details: map[string]any{"layer_id": id},
	}
}

// NewNotFound reports a missing layer, shape or project.
func NewNotFound(what, identifier string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNoSurface reports an engine created without a usable canvas extent.
func NewNoSurface(width, height int) *Error {
	return &Error{
		Code:    CodeNoSurface,
		Message: fmt.Sprintf("rendering surface missing or empty (%dx%d)", width, height),
		Details: map[string]any{"width": width, "height": height},
	}
}

// NewNothingToExport reports a raster export of an empty scene.
func NewNothingToExport() *Error {
	return &Error{
		Code:    CodeNothingToExport,
		Message: "nothing to export",
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    CodeInternal,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err is an *Error with the given code.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
