package shape

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// parseColor turns a hex color into an NRGBA with the given alpha. Empty,
// "none" and "transparent" mean no paint.
func parseColor(hex string, alpha float64) (color.Color, bool) {
	hex = strings.TrimSpace(hex)
	switch strings.ToLower(hex) {
	case "", "none", "transparent":
		return nil, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}, true
}

// ValidColor reports whether hex parses as a paintable color.
func ValidColor(hex string) bool {
	_, ok := parseColor(hex, 1)
	return ok
}
