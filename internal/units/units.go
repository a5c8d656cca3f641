// Package units maps drawing scales to real-world lengths.
package units

import "fmt"

// Scale is a drawing scale such as "1:100".
type Scale string

const (
	Scale1to50  Scale = "1:50"
	Scale1to100 Scale = "1:100"
	Scale1to200 Scale = "1:200"

	DefaultScale = Scale1to100
	Unit         = "m"
)

// metres per grid unit
var factors = map[Scale]float64{
	Scale1to50:  0.5,
	Scale1to100: 1,
	Scale1to200: 2,
}

// Scales lists the supported scales, finest first.
func Scales() []Scale {
	return []Scale{Scale1to50, Scale1to100, Scale1to200}
}

// Parse returns the scale named by s, falling back to DefaultScale.
func Parse(s string) Scale {
	if _, ok := factors[Scale(s)]; ok {
		return Scale(s)
	}
	return DefaultScale
}

// Factor returns the metres represented by one grid unit.
func (s Scale) Factor() float64 {
	if f, ok := factors[s]; ok {
		return f
	}
	return factors[DefaultScale]
}

// Next cycles to the following scale in Scales order.
func (s Scale) Next() Scale {
	all := Scales()
	for i, sc := range all {
		if sc == s {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultScale
}

// RealLength converts a pixel length to metres for the given grid size.
func (s Scale) RealLength(px, gridSize float64) float64 {
	if gridSize <= 0 {
		return 0
	}
	return px / gridSize * s.Factor()
}

// Format renders a pixel length as a real-world length with one decimal.
func (s Scale) Format(px, gridSize float64) string {
	return fmt.Sprintf("%.1f %s", s.RealLength(px, gridSize), Unit)
}
