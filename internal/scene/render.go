package scene

import (
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/fogleman/gg"

	"blueprint/internal/errors"
	"blueprint/internal/shape"
)

// PreviewAlpha is the opacity of the shape being drawn.
const PreviewAlpha = 0.7

// Render draws the grid, the visible layers bottom to top at their opacity,
// and then preview when it is not nil.
func (e *Engine) Render(dc shape.Surface, preview *shape.Shape) {
	e.render(dc, preview, shape.DrawOptions{FormatLength: e.FormatLength})
}

func (e *Engine) render(dc shape.Surface, preview *shape.Shape, opts shape.DrawOptions) {
	dc.Push()
	defer dc.Pop()
	dc.Scale(e.zoom, e.zoom)
	e.grid.Draw(dc, float64(e.width)/e.zoom, float64(e.height)/e.zoom)

	ox, oy := e.grid.Offset()
	dc.Translate(ox, oy)

	layers := e.layers.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		opts.Alpha = l.Opacity
		for _, s := range l.Shapes() {
			if err := s.Draw(dc, opts); err != nil {
				e.log.Warn("skipping shape", slog.String("shape_id", s.ID), slog.Any("err", err))
			}
		}
	}

	if preview != nil {
		opts.Alpha = PreviewAlpha
		if err := preview.Draw(dc, opts); err != nil {
			e.log.Warn("skipping preview", slog.Any("err", err))
		}
	}
}

// ExportImage flattens the current view onto a white background. Selection
// handles are left out.
func (e *Engine) ExportImage() (image.Image, error) {
	if len(e.shapes) == 0 {
		return nil, errors.NewNothingToExport()
	}
	dc := gg.NewContext(e.width, e.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	e.render(dc, nil, shape.DrawOptions{FormatLength: e.FormatLength, HideSelection: true})
	return dc.Image(), nil
}

// SavePNG writes ExportImage to path.
func (e *Engine) SavePNG(path string) error {
	img, err := e.ExportImage()
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

// EncodePNG writes ExportImage to w.
func (e *Engine) EncodePNG(w io.Writer) error {
	img, err := e.ExportImage()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
