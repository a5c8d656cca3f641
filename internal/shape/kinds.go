package shape

import (
	"math"
	"sync"
	"unicode/utf8"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Class groups kinds that share stretch and minimum-size rules.
type Class int

const (
	ClassUnknown Class = iota
	ClassRect
	ClassLine
	ClassCircle
	ClassText
)

// Behavior is the dispatch entry for one shape kind. Geometry callbacks work in
// local coordinates: the anchor is the origin and pose has been removed.
type Behavior struct {
	Class    Class
	Defaults func(s *Shape)
	Draw     func(dc Surface, s *Shape, opts DrawOptions)
	Bounds   func(s *Shape) orb.Bound
	// Contains overrides bounding-box hit testing when set.
	Contains func(s *Shape, lx, ly float64) bool
	Encode   func(s *Shape, r Record)
	Decode   func(r Record, s *Shape)
}

var (
	registryMu sync.RWMutex
	registry   = map[Kind]*Behavior{}
)

// Register installs or replaces the behavior for kind.
func Register(kind Kind, b Behavior) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = &b
}

func lookup(kind Kind) *Behavior {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[kind]
}

// Kinds lists every registered kind.
func Kinds() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

func init() {
	Register(KindWall, Behavior{
		Class: ClassLine,
		Defaults: func(s *Shape) {
			s.Thickness = DefaultThickness
			s.Stroke = "#333333"
			s.Fill = "#555555"
		},
		Draw:     drawWall,
		Bounds:   segmentBounds,
		Contains: segmentContains,
		Encode:   encodeSegment,
		Decode:   decodeSegment,
	})
	Register(KindMeasurement, Behavior{
		Class: ClassLine,
		Defaults: func(s *Shape) {
			s.Stroke = "#d02020"
			s.FontSize = 12
		},
		Draw:     drawMeasurement,
		Bounds:   segmentBounds,
		Contains: segmentContains,
		Encode:   encodeSegment,
		Decode:   decodeSegment,
	})
	Register(KindLine, Behavior{
		Class: ClassLine,
		Defaults: func(s *Shape) {
			s.Stroke = "#000000"
			s.StrokeWidth = 2
		},
		Draw:     drawLine,
		Bounds:   segmentBounds,
		Contains: segmentContains,
		Encode:   encodeSegment,
		Decode:   decodeSegment,
	})
	Register(KindDoor, Behavior{
		Class: ClassRect,
		Defaults: func(s *Shape) {
			s.Stroke = "#8b4513"
			s.Fill = "#ffffff"
		},
		Draw:   drawDoor,
		Bounds: rectBounds,
		Encode: encodeRect,
		Decode: decodeRect,
	})
	Register(KindWindow, Behavior{
		Class: ClassRect,
		Defaults: func(s *Shape) {
			s.Stroke = "#1e6fb8"
			s.Fill = "#cfe8ff"
		},
		Draw:   drawWindow,
		Bounds: rectBounds,
		Encode: encodeRect,
		Decode: decodeRect,
	})
	Register(KindRoom, Behavior{
		Class: ClassRect,
		Defaults: func(s *Shape) {
			s.Stroke = "#333333"
			s.Fill = "#f5f0e6"
			s.Text = "Room"
			s.FontSize = 14
		},
		Draw:   drawRoom,
		Bounds: rectBounds,
		Encode: func(s *Shape, r Record) {
			encodeRect(s, r)
			r["label"] = s.Text
			r["fontSize"] = s.FontSize
		},
		Decode: func(r Record, s *Shape) {
			decodeRect(r, s)
			s.Text = r.str("label", s.Text)
			s.FontSize = r.num("fontSize", s.FontSize)
		},
	})
	Register(KindRectangle, Behavior{
		Class: ClassRect,
		Defaults: func(s *Shape) {
			s.Stroke = "#000000"
			s.StrokeWidth = 2
		},
		Draw:   drawRectangle,
		Bounds: rectBounds,
		Encode: encodeRect,
		Decode: decodeRect,
	})
	Register(KindCircle, Behavior{
		Class: ClassCircle,
		Defaults: func(s *Shape) {
			s.Stroke = "#000000"
			s.StrokeWidth = 2
		},
		Draw: drawCircle,
		Bounds: func(s *Shape) orb.Bound {
			return orb.Bound{Min: orb.Point{-s.Radius, -s.Radius}, Max: orb.Point{s.Radius, s.Radius}}
		},
		Contains: func(s *Shape, lx, ly float64) bool {
			return math.Hypot(lx, ly) <= s.Radius+HitTolerance
		},
		Encode: func(s *Shape, r Record) { r["radius"] = s.Radius },
		Decode: func(r Record, s *Shape) { s.Radius = r.num("radius", s.Radius) },
	})
	Register(KindText, Behavior{
		Class: ClassText,
		Defaults: func(s *Shape) {
			s.Stroke = "#000000"
			s.Text = "Text"
			s.FontSize = DefaultFontSize
		},
		Draw:   drawText,
		Bounds: textBounds,
		Encode: func(s *Shape, r Record) {
			r["text"] = s.Text
			r["fontSize"] = s.FontSize
		},
		Decode: func(r Record, s *Shape) {
			s.Text = r.str("text", s.Text)
			s.FontSize = r.num("fontSize", s.FontSize)
		},
	})
}

func segmentBounds(s *Shape) orb.Bound {
	dx, dy := s.X2-s.X, s.Y2-s.Y
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}.Extend(orb.Point{dx, dy})
	return b.Pad(halfBody(s))
}

// segmentContains measures the perpendicular distance to the segment, clamped
// to its ends, against half the body width.
func segmentContains(s *Shape, lx, ly float64) bool {
	a := orb.Point{0, 0}
	b := orb.Point{s.X2 - s.X, s.Y2 - s.Y}
	return planar.DistanceFromSegment(a, b, orb.Point{lx, ly}) <= halfBody(s)+HitTolerance
}

func halfBody(s *Shape) float64 {
	if s.Kind == KindWall && s.Thickness > 0 {
		return s.Thickness / 2
	}
	return s.StrokeWidth / 2
}

func rectBounds(s *Shape) orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}.Extend(orb.Point{s.Width, s.Height})
}

// textBounds approximates the label box from character count.
func textBounds(s *Shape) orb.Bound {
	w := float64(utf8.RuneCountInString(s.Text)) * s.FontSize * TextWidthFactor
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{w, s.FontSize}}
}

func encodeSegment(s *Shape, r Record) {
	r["x2"] = s.X2
	r["y2"] = s.Y2
	if s.Kind == KindWall {
		r["thickness"] = s.Thickness
	}
}

func decodeSegment(r Record, s *Shape) {
	s.X2 = r.num("x2", s.X)
	s.Y2 = r.num("y2", s.Y)
	if s.Kind == KindWall {
		s.Thickness = r.num("thickness", s.Thickness)
	}
}

func encodeRect(s *Shape, r Record) {
	r["width"] = s.Width
	r["height"] = s.Height
}

func decodeRect(r Record, s *Shape) {
	s.Width = r.num("width", 0)
	s.Height = r.num("height", 0)
}
