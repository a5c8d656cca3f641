package shape

import (
	"encoding/json"

	"blueprint/internal/errors"
)

// Record is the serialized form of a shape: a discriminated map with a "type"
// key, common pose and style fields, and variant fields.
type Record map[string]any

// Serialize emits the shape as a Record.
func (s *Shape) Serialize() Record {
	r := Record{
		"type":        string(s.Kind),
		"id":          s.ID,
		"x":           s.X,
		"y":           s.Y,
		"strokeColor": s.Stroke,
		"fillColor":   s.Fill,
		"strokeWidth": s.StrokeWidth,
		"rotation":    s.Rotation,
		"scale":       s.Scale,
		"visible":     s.Visible,
	}
	if s.LayerID != "" {
		r["layerId"] = s.LayerID
	}
	if b := lookup(s.Kind); b != nil && b.Encode != nil {
		b.Encode(s, r)
	}
	return r
}

// Deserialize rebuilds a shape from a Record. Absent fields take the kind's
// defaults; an unregistered type yields a CodeUnknownShape error.
func Deserialize(r Record) (*Shape, error) {
	kind := Kind(r.str("type", ""))
	b := lookup(kind)
	if b == nil {
		return nil, errors.NewUnknownShape(string(kind))
	}
	s := New(kind, r.num("x", 0), r.num("y", 0), Style{})
	if id := r.str("id", ""); id != "" {
		s.ID = id
	}
	s.Stroke = r.str("strokeColor", s.Stroke)
	s.Fill = r.str("fillColor", s.Fill)
	s.StrokeWidth = r.num("strokeWidth", s.StrokeWidth)
	s.Rotation = r.num("rotation", 0)
	s.Scale = r.num("scale", s.Scale)
	s.LayerID = r.str("layerId", "")
	s.Visible = r.flag("visible", true)
	if b.Decode != nil {
		b.Decode(r, s)
	}
	return s, nil
}

func (r Record) str(key, def string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return def
}

func (r Record) flag(key string, def bool) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return def
}

func (r Record) num(key string, def float64) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return def
}
