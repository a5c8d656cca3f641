package scene

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueprint/internal/errors"
	"blueprint/internal/events"
	"blueprint/internal/layer"
	"blueprint/internal/project"
	"blueprint/internal/shape"
)

func newEngine(t *testing.T, opts ...func(*Options)) *Engine {
	t.Helper()
	o := Options{Width: 800, Height: 600}
	for _, fn := range opts {
		fn(&o)
	}
	e, err := New(o)
	require.NoError(t, err)
	return e
}

func whiteCanvas(w, h int) *gg.Context {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return dc
}

func rect(x, y, x2, y2 float64) *shape.Shape {
	s := shape.New(shape.KindRectangle, x, y, shape.Style{})
	s.SetTerminal(x2, y2)
	return s
}

func ids(shapes []*shape.Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.ID
	}
	return out
}

func TestNew_RequiresSurface(t *testing.T) {
	_, err := New(Options{Width: 0, Height: 600})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNoSurface))

	e := newEngine(t)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 1, e.HistoryLen())
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
	assert.Equal(t, 1.0, e.Zoom())
}

func TestAddShape_UndoRedo(t *testing.T) {
	e := newEngine(t)
	var added []string
	for i := 0; i < 4; i++ {
		s := rect(float64(i*20), 0, float64(i*20+10), 10)
		require.True(t, e.AddShape(s))
		added = append(added, s.ID)
	}
	assert.Equal(t, added, ids(e.Shapes()))

	for i := 3; i >= 0; i-- {
		require.True(t, e.Undo())
		assert.Equal(t, added[:i], ids(e.Shapes()))
	}
	assert.False(t, e.Undo())
	assert.Equal(t, 0, e.Len())

	for i := 1; i <= 4; i++ {
		require.True(t, e.Redo())
		assert.Equal(t, added[:i], ids(e.Shapes()))
	}
	assert.False(t, e.Redo())
}

func TestWallsOnSnappedGrid(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.GridSize = 20 })
	walls := e.CreateLayer("Walls")

	x1, y1 := e.SnapPoint(3, 4)
	x2, y2 := e.SnapPoint(98, 2)
	assert.Equal(t, []float64{0, 0, 100, 0}, []float64{x1, y1, x2, y2})

	e.BeginStroke()
	w := shape.New(shape.KindWall, x1, y1, shape.Style{})
	w.SetTerminal(x2, y2)
	require.True(t, e.AddShape(w))
	id := w.ID
	assert.Equal(t, walls.ID, w.LayerID)
	assert.Equal(t, 2, e.HistoryLen())

	require.True(t, e.Undo())
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 0, walls.Len())

	require.True(t, e.Redo())
	require.Equal(t, 1, e.Len())
	got := e.Get(id)
	require.NotNil(t, got)
	assert.Equal(t, 100.0, got.Length())
	assert.Equal(t, walls, e.Layers().LayerOf(id))
}

func TestCommitTruncatesRedo(t *testing.T) {
	e := newEngine(t)
	require.True(t, e.AddShape(rect(0, 0, 10, 10)))
	require.True(t, e.AddShape(rect(20, 0, 30, 10)))
	require.True(t, e.Undo())
	assert.True(t, e.CanRedo())

	require.True(t, e.AddShape(rect(40, 0, 50, 10)))
	assert.False(t, e.CanRedo())
	assert.Equal(t, 3, e.HistoryLen())
}

func TestHistoryCapacity(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.Capacity = 5 })
	for i := 0; i < 10; i++ {
		require.True(t, e.AddShape(rect(float64(i*20), 0, float64(i*20+10), 10)))
	}
	assert.Equal(t, 5, e.HistoryLen())

	undos := 0
	for e.Undo() {
		undos++
	}
	assert.Equal(t, 4, undos)
	assert.Equal(t, 6, e.Len())
}

func TestCheckpoint_OnlyWhenChanged(t *testing.T) {
	e := newEngine(t)
	assert.False(t, e.Checkpoint())
	e.BeginStroke()
	assert.Equal(t, 1, e.HistoryLen())

	require.True(t, e.AddShape(rect(0, 0, 10, 10)))
	e.Select(e.Shapes()[0].ID)
	assert.False(t, e.Checkpoint(), "selection is not an undoable change")
}

func TestAddShape_LockedLayerRejected(t *testing.T) {
	e := newEngine(t)
	e.Layers().SetLocked(e.Layers().ActiveID(), true)

	assert.False(t, e.AddShape(rect(0, 0, 10, 10)))
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 1, e.HistoryLen())
}

func TestAddShape_RejectsUnknownAndDuplicate(t *testing.T) {
	e := newEngine(t)
	assert.False(t, e.AddShape(nil))
	assert.False(t, e.AddShape(&shape.Shape{ID: "x", Kind: "hexagon"}))

	s := rect(0, 0, 10, 10)
	require.True(t, e.AddShape(s))
	assert.False(t, e.AddShape(s))
	assert.Equal(t, 1, e.Len())
}

func TestRemoveAndMutate_Undoable(t *testing.T) {
	e := newEngine(t)
	s := rect(0, 0, 10, 10)
	require.True(t, e.AddShape(s))

	require.True(t, e.Mutate(s.ID, func(s *shape.Shape) { s.Translate(40, 0) }))
	assert.Equal(t, 40.0, e.Get(s.ID).X)
	require.True(t, e.Undo())
	assert.Equal(t, 0.0, e.Get(s.ID).X)

	require.True(t, e.RemoveShape(s.ID))
	assert.Nil(t, e.Get(s.ID))
	assert.Nil(t, e.Layers().LayerOf(s.ID))
	require.True(t, e.Undo())
	assert.NotNil(t, e.Get(s.ID))
	assert.NotNil(t, e.Layers().LayerOf(s.ID))

	assert.False(t, e.RemoveShape("missing"))
	assert.False(t, e.Mutate("missing", func(*shape.Shape) {}))
}

func TestClear_Undoable(t *testing.T) {
	e := newEngine(t)
	require.True(t, e.AddShape(rect(0, 0, 10, 10)))
	require.True(t, e.AddShape(rect(20, 0, 30, 10)))

	e.Clear()
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 0, e.Layers().Active().Len())

	require.True(t, e.Undo())
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 2, e.Layers().Active().Len())
}

func TestMoveShapeToLayer(t *testing.T) {
	e := newEngine(t)
	s := rect(0, 0, 10, 10)
	require.True(t, e.AddShape(s))
	base := e.Layers().ActiveID()
	other := e.CreateLayer("Furniture")

	require.True(t, e.MoveShapeToLayer(s.ID, other.ID))
	assert.Equal(t, other.ID, e.Get(s.ID).LayerID)

	require.True(t, e.Undo())
	assert.Equal(t, base, e.Get(s.ID).LayerID)
	assert.Equal(t, base, e.Layers().LayerOf(s.ID).ID)
}

func TestDeleteLayer_ShapesGoToDefault(t *testing.T) {
	e := newEngine(t)
	def := e.Layers().DefaultID()
	walls := e.CreateLayer("Walls")
	s := rect(0, 0, 10, 10)
	require.True(t, e.AddShape(s))
	require.Equal(t, walls.ID, s.LayerID)

	require.True(t, e.DeleteLayer(walls.ID))
	assert.Equal(t, def, e.Get(s.ID).LayerID)
	assert.False(t, e.DeleteLayer(def))
}

func TestUndo_AcrossDeletedLayerKeepsHistoryInStep(t *testing.T) {
	e := newEngine(t)
	def := e.Layers().DefaultID()
	walls := e.CreateLayer("Walls")
	s := rect(0, 0, 10, 10)
	require.True(t, e.AddShape(s))
	require.True(t, e.DeleteLayer(walls.ID))
	require.Equal(t, 3, e.HistoryLen())

	require.True(t, e.Undo())
	assert.Equal(t, def, e.Get(s.ID).LayerID)
	head, ok := e.history.Peek()
	require.True(t, ok)
	assert.True(t, shape.EqualAll(head, e.Shapes()))

	e.BeginStroke()
	assert.Equal(t, 3, e.HistoryLen())
	assert.Equal(t, 1, e.HistoryIndex())
	assert.True(t, e.CanRedo())

	require.True(t, e.Redo())
	assert.Equal(t, def, e.Get(s.ID).LayerID)
}

func TestPick_TopmostWins(t *testing.T) {
	e := newEngine(t)
	bottom := e.Layers().ActiveID()
	top := e.CreateLayer("Top")

	upper := rect(0, 0, 50, 50)
	require.True(t, e.AddShape(upper))

	e.Layers().SetActive(bottom)
	lower := rect(10, 10, 60, 60)
	require.True(t, e.AddShape(lower))
	later := rect(30, 30, 80, 80)
	require.True(t, e.AddShape(later))

	assert.Equal(t, upper.ID, e.Pick(35, 35).ID, "top layer beats commit order")
	assert.Equal(t, later.ID, e.Pick(55, 55).ID, "later commit wins inside a layer")
	assert.Nil(t, e.Pick(200, 200))

	e.Layers().SetVisible(top.ID, false)
	assert.Equal(t, later.ID, e.Pick(35, 35).ID)
}

func TestSelect(t *testing.T) {
	e := newEngine(t)
	a, b := rect(0, 0, 10, 10), rect(20, 0, 30, 10)
	require.True(t, e.AddShape(a))
	require.True(t, e.AddShape(b))

	e.Select(a.ID)
	assert.Equal(t, a.ID, e.Selected().ID)
	e.Select(b.ID)
	assert.False(t, a.Selected)
	assert.Equal(t, b.ID, e.Selected().ID)
	e.Select("")
	assert.Nil(t, e.Selected())
}

func TestZoomClamps(t *testing.T) {
	e := newEngine(t)
	e.ZoomIn()
	assert.InDelta(t, 1.2, e.Zoom(), 1e-9)
	for i := 0; i < 30; i++ {
		e.ZoomIn()
	}
	assert.Equal(t, MaxZoom, e.Zoom())
	for i := 0; i < 60; i++ {
		e.ZoomOut()
	}
	assert.Equal(t, MinZoom, e.Zoom())
	e.ResetZoom()
	assert.Equal(t, 1.0, e.Zoom())
}

func TestFitToScreen(t *testing.T) {
	e := newEngine(t)
	assert.False(t, e.FitToScreen())

	require.True(t, e.AddShape(rect(0, 0, 1000, 500)))
	require.True(t, e.FitToScreen())
	assert.InDelta(t, 0.64, e.Zoom(), 1e-9)

	sx, sy := e.WorldToScreen(500, 250)
	assert.InDelta(t, 400, sx, 1e-6)
	assert.InDelta(t, 300, sy, 1e-6)

	small := newEngine(t)
	require.True(t, small.AddShape(rect(0, 0, 10, 10)))
	require.True(t, small.FitToScreen())
	assert.Equal(t, MaxZoom, small.Zoom())
}

func TestScreenToWorld_ZoomAndPan(t *testing.T) {
	e := newEngine(t)
	e.SetZoom(2)
	e.Pan(20, 0)
	x, y := e.ScreenToWorld(40, 10)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 5.0, y)

	sx, sy := e.WorldToScreen(x, y)
	assert.Equal(t, 40.0, sx)
	assert.Equal(t, 10.0, sy)

	e.SetSnapToGrid(false)
	x, _ = e.SnapPoint(41, 0)
	assert.Equal(t, 10.5, x)
}

func TestResize(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Resize(320, 240))
	w, h := e.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
	assert.True(t, errors.Is(e.Resize(0, 10), errors.CodeNoSurface))
}

func TestExportImportData_RoundTrip(t *testing.T) {
	e := newEngine(t)
	walls := e.CreateLayer("Walls", layer.WithOpacity(0.5))
	w := shape.New(shape.KindWall, 0, 0, shape.Style{})
	w.SetTerminal(100, 0)
	require.True(t, e.AddShape(w))
	e.SetZoom(2)
	e.SetGridVisible(false)

	data, err := project.Encode(e.ExportData())
	require.NoError(t, err)
	doc, err := project.Parse(data)
	require.NoError(t, err)

	other := newEngine(t)
	report, err := other.ImportData(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.Empty(t, report.Skipped)

	got := other.Get(w.ID)
	require.NotNil(t, got)
	assert.True(t, shape.Equal(w, got))
	assert.Equal(t, walls.ID, other.Layers().LayerOf(w.ID).ID)
	assert.Equal(t, 0.5, other.Layers().Get(walls.ID).Opacity)
	assert.Equal(t, 2.0, other.Zoom())
	assert.False(t, other.Grid().Visible())
	assert.Equal(t, 1, other.HistoryLen())
}

func TestImportData_SkipsUnknownShapes(t *testing.T) {
	e := newEngine(t)
	doc, err := project.Parse([]byte(`{
		"drawings": [
			{"type": "hexagon", "id": "h1", "x": 1, "y": 2},
			{"type": "rectangle", "id": "r1", "x": 0, "y": 0, "width": 10, "height": 10}
		],
		"layers": {},
		"scale": "1:50",
		"gridVisible": true,
		"zoom": 1
	}`))
	require.NoError(t, err)

	report, err := e.ImportData(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, []string{"hexagon"}, report.Skipped)
	assert.NotNil(t, e.Get("r1"))
	assert.Equal(t, "1:50", string(e.Scale()))
	assert.Equal(t, e.Layers().DefaultID(), e.Get("r1").LayerID)
}

func TestImportData_InvalidLayersLeaveSceneUntouched(t *testing.T) {
	e := newEngine(t)
	s := rect(0, 0, 10, 10)
	require.True(t, e.AddShape(s))

	doc := &project.Document{
		Drawings: []shape.Record{{"type": "circle", "x": 5.0, "y": 5.0, "radius": 20.0}},
		Layers: layer.Snapshot{Layers: []layer.Record{
			{ID: "layer-1", Name: "A"},
			{ID: "layer-1", Name: "B"},
		}},
	}
	_, err := e.ImportData(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidFormat))
	assert.Equal(t, []string{s.ID}, ids(e.Shapes()))
	assert.Equal(t, 2, e.HistoryLen())

	_, err = e.ImportData(nil)
	assert.True(t, errors.Is(err, errors.CodeInvalidFormat))
}

func TestExportImage(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.Width, o.Height = 100, 100 })
	_, err := e.ExportImage()
	assert.True(t, errors.Is(err, errors.CodeNothingToExport))

	s := shape.New(shape.KindRectangle, 10, 10, shape.Style{Fill: "#ff0000"})
	s.SetTerminal(90, 90)
	require.True(t, e.AddShape(s))

	img, err := e.ExportImage()
	require.NoError(t, err)
	r, g, b, _ := img.At(45, 45).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Less(t, g, uint32(0x2000))
	assert.Less(t, b, uint32(0x2000))

	r, g, b, _ = img.At(99, 1).RGBA()
	assert.Greater(t, r, uint32(0xd000))
	assert.Greater(t, g, uint32(0xd000))
	assert.Greater(t, b, uint32(0xd000))

	var buf bytes.Buffer
	require.NoError(t, e.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())

	path := filepath.Join(t.TempDir(), "plan.png")
	require.NoError(t, e.SavePNG(path))
}

func TestRender_HiddenLayerAndPreview(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.Width, o.Height = 100, 100 })
	e.SetGridVisible(false)
	s := shape.New(shape.KindRectangle, 10, 10, shape.Style{Fill: "#0000ff"})
	s.SetTerminal(90, 90)
	require.True(t, e.AddShape(s))
	e.Layers().SetVisible(s.LayerID, false)

	img, err := e.ExportImage()
	require.NoError(t, err)
	r, g, b, _ := img.At(45, 45).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	preview := shape.New(shape.KindRectangle, 10, 10, shape.Style{Fill: "#000000"})
	preview.SetTerminal(90, 90)
	dc := whiteCanvas(100, 100)
	e.Render(dc, preview)
	r, _, _, _ = dc.Image().At(45, 45).RGBA()
	// 0.7 black over white
	assert.InDelta(t, 0.3*0xffff, float64(r), 0x600)
}

func TestEvents_Published(t *testing.T) {
	bus := events.NewBus()
	var topics []events.Topic
	for _, topic := range []events.Topic{events.ShapeAdded, events.SceneCleared, events.SceneLoaded} {
		bus.Subscribe(topic, func(ev events.Event) { topics = append(topics, ev.Topic) })
	}
	e := newEngine(t, func(o *Options) { o.Bus = bus })

	require.True(t, e.AddShape(rect(0, 0, 10, 10)))
	e.Clear()
	_, err := e.ImportData(&project.Document{})
	require.NoError(t, err)

	assert.Equal(t, []events.Topic{events.ShapeAdded, events.SceneCleared, events.SceneLoaded}, topics)
}
