// Package layer groups shapes into ordered, lockable, named layers.
package layer

import "blueprint/internal/shape"

// Layer is a named group of shapes. The manager keeps the shape list.
type Layer struct {
	ID      string
	Name    string
	Index   int
	Visible bool
	Locked  bool
	Opacity float64
	Color   string

	shapes []*shape.Shape
}

// Shapes returns the layer's shapes in insertion order.
func (l *Layer) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, len(l.shapes))
	copy(out, l.shapes)
	return out
}

// Len returns the number of shapes in the layer.
func (l *Layer) Len() int { return len(l.shapes) }

func (l *Layer) indexOf(shapeID string) int {
	for i, s := range l.shapes {
		if s.ID == shapeID {
			return i
		}
	}
	return -1
}

func (l *Layer) remove(shapeID string) bool {
	i := l.indexOf(shapeID)
	if i < 0 {
		return false
	}
	l.shapes = append(l.shapes[:i], l.shapes[i+1:]...)
	return true
}

// Option configures a layer at creation.
type Option func(*createOptions)

type createOptions struct {
	index   int
	visible bool
	locked  bool
	opacity float64
	color   string
}

// AtIndex inserts the layer at position i of the stacking order (0 = top).
func AtIndex(i int) Option {
	return func(o *createOptions) { o.index = i }
}

// Hidden creates the layer invisible.
func Hidden() Option {
	return func(o *createOptions) { o.visible = false }
}

// Locked creates the layer locked.
func Locked() Option {
	return func(o *createOptions) { o.locked = true }
}

// WithOpacity sets the initial opacity, clamped to [0,1].
func WithOpacity(v float64) Option {
	return func(o *createOptions) { o.opacity = clampOpacity(v) }
}

// WithColor sets the layer's swatch color.
func WithColor(c string) Option {
	return func(o *createOptions) { o.color = c }
}

func clampOpacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
