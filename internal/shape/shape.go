// Package shape defines the drawable entities of a floor plan.
//
// A Shape is a tagged union: the Kind field selects a Behavior from a dispatch
// table that knows how to draw, bound, hit-test and serialize that variant.
// New variants are added with Register.
package shape

import (
	"crypto/rand"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/paulmach/orb"
)

// Kind discriminates shape variants.
type Kind string

const (
	KindWall        Kind = "wall"
	KindDoor        Kind = "door"
	KindWindow      Kind = "window"
	KindRoom        Kind = "room"
	KindText        Kind = "text"
	KindMeasurement Kind = "measurement"
	KindRectangle   Kind = "rectangle"
	KindCircle      Kind = "circle"
	KindLine        Kind = "line"
)

const (
	// MinSize is the extent a drag must exceed for a shape to be kept.
	MinSize = 5.0
	// HitTolerance widens thin-body hit tests.
	HitTolerance = 3.0
	// TextWidthFactor approximates glyph advance as a fraction of font size.
	TextWidthFactor = 0.6

	DefaultThickness = 8.0
	DefaultFontSize  = 16.0
)

// Style holds presentation attributes shared by every variant.
type Style struct {
	Stroke      string  // hex color, "" for none
	Fill        string  // hex color, "" for none
	StrokeWidth float64 // world units
	Rotation    float64 // degrees
	Scale       float64 // uniform scale factor
}

// Shape is one drawable entity of the scene.
type Shape struct {
	ID   string
	Kind Kind

	// anchor
	X, Y float64

	// terminal point of wall, measurement and line
	X2, Y2 float64
	// extent of door, window, room and rectangle
	Width, Height float64
	Radius        float64
	Thickness     float64

	Text     string
	FontSize float64

	Style

	// LayerID is a lookup key only; the layer manager owns membership.
	LayerID string

	Selected bool
	Visible  bool
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh, time-ordered shape id.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// New creates a shape of the given kind anchored at (x, y). Empty style fields
// take the kind's defaults. It returns nil when kind is not registered.
func New(kind Kind, x, y float64, style Style) *Shape {
	b := lookup(kind)
	if b == nil {
		return nil
	}
	s := &Shape{
		ID:      NewID(),
		Kind:    kind,
		X:       x,
		Y:       y,
		X2:      x,
		Y2:      y,
		Visible: true,
		Style:   Style{StrokeWidth: 1, Scale: 1},
	}
	if b.Defaults != nil {
		b.Defaults(s)
	}
	if style.Stroke != "" {
		s.Stroke = style.Stroke
	}
	if style.Fill != "" {
		s.Fill = style.Fill
	}
	if style.StrokeWidth > 0 {
		s.StrokeWidth = style.StrokeWidth
	}
	if style.Scale > 0 {
		s.Scale = style.Scale
	}
	s.Rotation = style.Rotation
	return s
}

// Known reports whether kind has a registered behavior.
func Known(kind Kind) bool {
	return lookup(kind) != nil
}

// Clone returns a deep copy of s.
func (s *Shape) Clone() *Shape {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Equal compares drawing content, ignoring transient selection.
func Equal(a, b *Shape) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := *a, *b
	x.Selected, y.Selected = false, false
	return x == y
}

// EqualAll compares two shape lists element-wise with Equal.
func EqualAll(a, b []*Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// CloneAll deep-copies a shape list. Selection is not carried over.
func CloneAll(shapes []*Shape) []*Shape {
	out := make([]*Shape, len(shapes))
	for i, s := range shapes {
		c := s.Clone()
		c.Selected = false
		out[i] = c
	}
	return out
}

// Class returns the size class of the shape's kind.
func (s *Shape) Class() Class {
	if b := lookup(s.Kind); b != nil {
		return b.Class
	}
	return ClassUnknown
}

// SetTerminal stretches the shape so that its far end sits at (x, y).
func (s *Shape) SetTerminal(x, y float64) {
	switch s.Class() {
	case ClassLine:
		s.X2, s.Y2 = x, y
	case ClassRect:
		s.Width, s.Height = x-s.X, y-s.Y
	case ClassCircle:
		s.Radius = math.Hypot(x-s.X, y-s.Y)
	}
}

// Terminal returns the far end of the shape in world space.
func (s *Shape) Terminal() (float64, float64) {
	switch s.Class() {
	case ClassLine:
		return s.X2, s.Y2
	case ClassRect:
		return s.X + s.Width, s.Y + s.Height
	case ClassCircle:
		return s.X + s.Radius, s.Y
	}
	return s.X, s.Y
}

// Points returns the anchor and terminal points used to frame the shape.
func (s *Shape) Points() []orb.Point {
	switch s.Class() {
	case ClassCircle:
		return []orb.Point{{s.X - s.Radius, s.Y - s.Radius}, {s.X + s.Radius, s.Y + s.Radius}}
	case ClassText:
		b := s.Bounds()
		return []orb.Point{{s.X, s.Y}, {s.X + b.Max[0], s.Y + b.Max[1]}}
	}
	tx, ty := s.Terminal()
	return []orb.Point{{s.X, s.Y}, {tx, ty}}
}

// Length returns the segment length of line-class shapes, zero otherwise.
func (s *Shape) Length() float64 {
	if s.Class() != ClassLine {
		return 0
	}
	return math.Hypot(s.X2-s.X, s.Y2-s.Y)
}

// Valid reports whether a provisional shape is large enough to commit.
func (s *Shape) Valid() bool {
	switch s.Class() {
	case ClassRect:
		return math.Abs(s.Width) > MinSize && math.Abs(s.Height) > MinSize
	case ClassCircle:
		return s.Radius > MinSize
	case ClassLine:
		return s.Length() > MinSize
	case ClassText:
		return true
	}
	return false
}

// Normalize flips negative rectangle extents so width and height are positive.
func (s *Shape) Normalize() {
	if s.Class() != ClassRect {
		return
	}
	if s.Width < 0 {
		s.X += s.Width
		s.Width = -s.Width
	}
	if s.Height < 0 {
		s.Y += s.Height
		s.Height = -s.Height
	}
}

// Translate moves the whole shape by (dx, dy).
func (s *Shape) Translate(dx, dy float64) {
	s.X += dx
	s.Y += dy
	if s.Class() == ClassLine {
		s.X2 += dx
		s.Y2 += dy
	}
}

// Bounds returns the local axis-aligned box, before pose transform.
func (s *Shape) Bounds() orb.Bound {
	b := lookup(s.Kind)
	if b == nil || b.Bounds == nil {
		return orb.Bound{}
	}
	return b.Bounds(s)
}

// Contains hit-tests a world point against the shape.
func (s *Shape) Contains(x, y float64) bool {
	b := lookup(s.Kind)
	if b == nil {
		return false
	}
	lx, ly := s.toLocal(x, y)
	if b.Contains != nil {
		return b.Contains(s, lx, ly)
	}
	return s.Bounds().Contains(orb.Point{lx, ly})
}

func (s *Shape) scaleFactor() float64 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// toLocal inverts translate, rotate and scale.
func (s *Shape) toLocal(x, y float64) (float64, float64) {
	dx, dy := x-s.X, y-s.Y
	if s.Rotation != 0 {
		rad := -s.Rotation * math.Pi / 180
		sin, cos := math.Sincos(rad)
		dx, dy = dx*cos-dy*sin, dx*sin+dy*cos
	}
	k := s.scaleFactor()
	return dx / k, dy / k
}
