package main

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"blueprint/internal/scene"
	"blueprint/internal/shape"
)

const halfBlock = "▀"

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e6fe8")).Background(lipgloss.Color("#ffffff"))

// rasterize draws the scene at full pixel resolution for a cols×rows cell
// area.
func rasterize(e *scene.Engine, preview *shape.Shape, cols, rows int) *image.RGBA {
	dc := gg.NewContext(cols*charWidth, rows*charHeight)
	dc.SetColor(color.White)
	dc.Clear()
	e.Render(dc, preview)
	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	bounds := dc.Image().Bounds()
	img := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, dc.Image().At(x, y))
		}
	}
	return img
}

// renderCanvas turns the scene into terminal lines. Each cell shows two
// pixels with an upper half block: foreground on top, background below. A
// half cell takes the color of its most inked pixel so thin lines survive the
// downsampling.
func renderCanvas(e *scene.Engine, preview *shape.Shape, cols, rows, cursorX, cursorY int) []string {
	if cols < 1 || rows < 1 {
		return nil
	}
	img := rasterize(e, preview, cols, rows)
	lines := make([]string, rows)
	half := charHeight / 2

	for r := 0; r < rows; r++ {
		var line strings.Builder
		var runTop, runBottom string
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(runTop)).Background(lipgloss.Color(runBottom))
			line.WriteString(style.Render(strings.Repeat(halfBlock, runLen)))
			runLen = 0
		}

		for c := 0; c < cols; c++ {
			if c == cursorX && r == cursorY {
				flush()
				line.WriteString(cursorStyle.Render("+"))
				continue
			}
			top := inkiest(img, c*charWidth, r*charHeight, charWidth, half)
			bottom := inkiest(img, c*charWidth, r*charHeight+half, charWidth, half)
			if runLen > 0 && (top != runTop || bottom != runBottom) {
				flush()
			}
			runTop, runBottom = top, bottom
			runLen++
		}
		flush()
		lines[r] = line.String()
	}
	return lines
}

// inkiest returns the hex color of the pixel furthest from white in the w×h
// block at (x0, y0).
func inkiest(img *image.RGBA, x0, y0, w, h int) string {
	best := -1
	var pick color.RGBA
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			i := img.PixOffset(x, y)
			if i < 0 || i+3 >= len(img.Pix) {
				continue
			}
			p := img.Pix[i : i+4 : i+4]
			score := 3*255 - int(p[0]) - int(p[1]) - int(p[2])
			if score > best {
				best = score
				pick = color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
			}
		}
	}
	if best < 0 {
		return "#ffffff"
	}
	c, _ := colorful.MakeColor(pick)
	return c.Hex()
}
