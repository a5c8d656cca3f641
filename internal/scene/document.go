package scene

import (
	"log/slog"

	"blueprint/internal/errors"
	"blueprint/internal/events"
	"blueprint/internal/project"
	"blueprint/internal/shape"
	"blueprint/internal/units"
)

// ImportReport describes what ImportData kept and what it dropped.
type ImportReport struct {
	Loaded int
	// Skipped holds the type of every record that could not be decoded.
	Skipped []string
}

// ExportData captures the scene, layers and view settings as a document.
func (e *Engine) ExportData() *project.Document {
	doc := &project.Document{
		Drawings:    make([]shape.Record, 0, len(e.shapes)),
		Layers:      e.layers.Export(),
		Scale:       string(e.scale),
		GridVisible: e.grid.Visible(),
		Zoom:        e.zoom,
		GridSize:    e.grid.Size(),
	}
	for _, s := range e.shapes {
		doc.Drawings = append(doc.Drawings, s.Serialize())
	}
	return doc
}

// ImportData replaces the scene with doc. Records of unknown type are skipped
// and listed in the report. An invalid layer snapshot fails the import and
// leaves the engine untouched. History restarts from the imported scene.
func (e *Engine) ImportData(doc *project.Document) (ImportReport, error) {
	var report ImportReport
	if doc == nil {
		return report, errors.NewInvalidFormat(nil)
	}

	shapes := make([]*shape.Shape, 0, len(doc.Drawings))
	seen := make(map[string]bool, len(doc.Drawings))
	for _, r := range doc.Drawings {
		s, err := shape.Deserialize(r)
		if err != nil {
			kind, _ := r["type"].(string)
			report.Skipped = append(report.Skipped, kind)
			e.log.Warn("import: skipping record", slog.Any("err", err))
			continue
		}
		if seen[s.ID] {
			s.ID = shape.NewID()
		}
		seen[s.ID] = true
		shapes = append(shapes, s)
	}

	if err := e.layers.Import(doc.Layers); err != nil {
		return ImportReport{}, err
	}

	e.shapes = shapes
	e.layers.Rebind(e.shapes)
	if doc.Scale != "" {
		e.scale = units.Parse(doc.Scale)
	}
	if doc.GridSize > 0 {
		e.grid.SetSize(doc.GridSize)
	}
	e.grid.SetVisible(doc.GridVisible)
	e.SetZoom(doc.Zoom)
	e.history.Reset(e.shapes)

	report.Loaded = len(shapes)
	e.bus.Publish(events.SceneLoaded, report)
	return report, nil
}
