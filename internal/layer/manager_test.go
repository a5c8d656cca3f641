package layer

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueprint/internal/errors"
	"blueprint/internal/shape"
)

func newShape(t *testing.T) *shape.Shape {
	t.Helper()
	s := shape.New(shape.KindRectangle, 0, 0, shape.Style{})
	require.NotNil(t, s)
	s.SetTerminal(10, 10)
	return s
}

// assertExclusive checks every shape sits in exactly one layer and that its
// LayerID points there.
func assertExclusive(t *testing.T, m *Manager, shapes []*shape.Shape) {
	t.Helper()
	for _, s := range shapes {
		count := 0
		var holder *Layer
		for _, l := range m.Layers() {
			for _, member := range l.Shapes() {
				if member.ID == s.ID {
					count++
					holder = l
				}
			}
		}
		require.Equal(t, 1, count, "shape %s membership", s.ID)
		assert.Equal(t, holder.ID, s.LayerID)
		assert.Equal(t, holder, m.LayerOf(s.ID))
	}
}

func TestNewManager_DefaultLayer(t *testing.T) {
	m := NewManager(nil)
	require.Equal(t, 1, m.Len())
	l := m.Active()
	require.NotNil(t, l)
	assert.Equal(t, DefaultName, l.Name)
	assert.Equal(t, l.ID, m.DefaultID())
	assert.True(t, l.Visible)
	assert.Equal(t, 1.0, l.Opacity)
}

func TestCreateLayer_OrderAndIndices(t *testing.T) {
	m := NewManager(nil)
	def := m.Active()
	walls := m.CreateLayer("Walls", AtIndex(0))
	furniture := m.CreateLayer("Furniture")
	notes := m.CreateLayer("Notes", AtIndex(99), Hidden(), Locked(), WithOpacity(2), WithColor("#123456"))

	layers := m.Layers()
	require.Len(t, layers, 4)
	assert.Equal(t, []string{furniture.ID, walls.ID, def.ID, notes.ID},
		[]string{layers[0].ID, layers[1].ID, layers[2].ID, layers[3].ID})
	for i, l := range layers {
		assert.Equal(t, i, l.Index)
	}
	assert.False(t, notes.Visible)
	assert.True(t, notes.Locked)
	assert.Equal(t, 1.0, notes.Opacity)
	assert.Equal(t, "#123456", notes.Color)
	assert.NotEqual(t, walls.ID, furniture.ID)
}

func TestAddShape_ActiveAndExclusive(t *testing.T) {
	m := NewManager(nil)
	other := m.CreateLayer("Other")
	s := newShape(t)

	require.True(t, m.AddShape(s, ""))
	assert.Equal(t, m.ActiveID(), s.LayerID)

	require.True(t, m.AddShape(s, other.ID))
	assert.Equal(t, other.ID, s.LayerID)
	assert.Equal(t, 0, m.Get(m.DefaultID()).Len())
	assertExclusive(t, m, []*shape.Shape{s})
}

func TestAddShape_LockedLayer(t *testing.T) {
	m := NewManager(nil)
	s := newShape(t)
	require.True(t, m.AddShape(s, ""))

	locked := m.CreateLayer("Locked", Locked())
	assert.False(t, m.AddShape(s, locked.ID))
	assert.Equal(t, m.DefaultID(), s.LayerID, "rejected move leaves the shape where it was")
	assert.False(t, m.AddShape(newShape(t), "missing"))
	assert.False(t, m.MoveShapeToLayer(s, ""))
}

func TestDeleteLayer_LastLayer(t *testing.T) {
	m := NewManager(nil)
	before := m.Export()
	assert.False(t, m.DeleteLayer(m.DefaultID()))
	assert.Equal(t, before, m.Export())
	assert.False(t, m.DeleteLayer("nope"))
}

func TestDeleteLayer_ReassignsToDefault(t *testing.T) {
	m := NewManager(nil)
	walls := m.CreateLayer("Walls")
	m.SetActive(walls.ID)
	a, b := newShape(t), newShape(t)
	require.True(t, m.AddShape(a, ""))
	require.True(t, m.AddShape(b, ""))

	require.True(t, m.DeleteLayer(walls.ID))
	assert.Nil(t, m.Get(walls.ID))
	assert.Equal(t, m.DefaultID(), a.LayerID)
	assert.Equal(t, m.DefaultID(), m.ActiveID(), "active falls back to the first layer in order")
	assertExclusive(t, m, []*shape.Shape{a, b})
}

func TestDeleteLayer_DefaultHandsOff(t *testing.T) {
	m := NewManager(nil)
	def := m.DefaultID()
	s := newShape(t)
	require.True(t, m.AddShape(s, def))
	other := m.CreateLayer("Other", Locked())

	require.True(t, m.DeleteLayer(def))
	assert.Equal(t, other.ID, s.LayerID, "lock does not block redistribution")
	assert.Equal(t, other.ID, m.DefaultID())
	assertExclusive(t, m, []*shape.Shape{s})
}

func TestMembership_RandomOperations(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	m := NewManager(nil)
	var shapes []*shape.Shape
	for i := 0; i < 20; i++ {
		s := newShape(t)
		require.True(t, m.AddShape(s, ""))
		shapes = append(shapes, s)
	}
	for i := 0; i < 300; i++ {
		layers := m.Layers()
		switch r.Intn(4) {
		case 0:
			m.CreateLayer("")
		case 1:
			m.DeleteLayer(layers[r.Intn(len(layers))].ID)
		case 2:
			m.MoveShapeToLayer(shapes[r.Intn(len(shapes))], layers[r.Intn(len(layers))].ID)
		case 3:
			m.AddShape(shapes[r.Intn(len(shapes))], "")
		}
		assertExclusive(t, m, shapes)
	}
}

func TestMoveLayer(t *testing.T) {
	m := NewManager(nil)
	a := m.CreateLayer("A")
	b := m.CreateLayer("B")
	def := m.Get(m.DefaultID())
	// order: B, A, Default
	require.True(t, m.MoveLayer(b.ID, 10))
	assert.Equal(t, []*Layer{a, def, b}, m.Layers())
	require.True(t, m.MoveLayer(b.ID, -3))
	assert.Equal(t, []*Layer{b, a, def}, m.Layers())
	assert.Equal(t, 0, b.Index)
	assert.Equal(t, 2, def.Index)
	assert.False(t, m.MoveLayer("nope", 0))
}

func TestVisibleShapes_BottomToTop(t *testing.T) {
	m := NewManager(nil)
	top := m.CreateLayer("Top")
	hidden := m.CreateLayer("Hidden", AtIndex(1), Hidden())
	bottom, mid, upper := newShape(t), newShape(t), newShape(t)
	require.True(t, m.AddShape(bottom, m.DefaultID()))
	require.True(t, m.AddShape(mid, hidden.ID))
	require.True(t, m.AddShape(upper, top.ID))

	assert.Equal(t, []*shape.Shape{bottom, upper}, m.VisibleShapes())
	m.SetVisible(hidden.ID, true)
	assert.Equal(t, []*shape.Shape{bottom, mid, upper}, m.VisibleShapes())
}

func TestRebind(t *testing.T) {
	m := NewManager(nil)
	walls := m.CreateLayer("Walls", Locked())
	a, b := newShape(t), newShape(t)
	a.LayerID = walls.ID
	b.LayerID = "gone"
	m.Rebind([]*shape.Shape{a, b})
	assert.Equal(t, walls.ID, a.LayerID)
	assert.Equal(t, m.DefaultID(), b.LayerID)
	assertExclusive(t, m, []*shape.Shape{a, b})

	m.Rebind(nil)
	assert.Nil(t, m.LayerOf(a.ID))
	assert.Empty(t, m.VisibleShapes())
}

func TestSetters(t *testing.T) {
	m := NewManager(nil)
	id := m.DefaultID()
	assert.True(t, m.SetOpacity(id, -1))
	assert.Equal(t, 0.0, m.Get(id).Opacity)
	assert.True(t, m.Rename(id, "Ground"))
	assert.False(t, m.Rename(id, ""))
	assert.Equal(t, "Ground", m.Get(id).Name)
	assert.True(t, m.SetLocked(id, true))
	assert.False(t, m.SetVisible("nope", true))
	assert.False(t, m.SetActive("nope"))
}

func TestExportImport_RoundTrip(t *testing.T) {
	m := NewManager(nil)
	walls := m.CreateLayer("Walls", AtIndex(0), WithOpacity(0.5))
	m.CreateLayer("Furniture", Hidden())
	m.CreateLayer("Notes", Locked(), WithColor("#abcdef"))
	m.SetActive(walls.ID)
	m.MoveLayer(walls.ID, 2)
	snap := m.Export()

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored := NewManager(nil)
	require.NoError(t, restored.Import(decoded))
	assert.Equal(t, snap, restored.Export())

	fresh := restored.CreateLayer("Fresh")
	for _, r := range snap.Layers {
		assert.NotEqual(t, r.ID, fresh.ID)
	}
}

func TestImport_Empty(t *testing.T) {
	m := NewManager(nil)
	m.CreateLayer("A")
	m.CreateLayer("B")
	require.NoError(t, m.Import(Snapshot{}))
	require.Equal(t, 1, m.Len())
	assert.Equal(t, DefaultName, m.Active().Name)
}

func TestImport_Invalid(t *testing.T) {
	m := NewManager(nil)
	m.CreateLayer("Keep")
	before := m.Export()

	err := m.Import(Snapshot{Layers: []Record{{ID: "a"}, {ID: "a"}}})
	assert.True(t, errors.Is(err, errors.CodeInvalidFormat))
	err = m.Import(Snapshot{Layers: []Record{{Name: "no id"}}})
	assert.True(t, errors.Is(err, errors.CodeInvalidFormat))
	assert.Equal(t, before, m.Export())
}

func TestImport_RepairsOrderAndCounter(t *testing.T) {
	m := NewManager(nil)
	err := m.Import(Snapshot{
		Layers: []Record{
			{ID: "layer-7", Name: "Seven", Index: 1, Visible: true, Opacity: 1},
			{ID: "layer-3", Name: "Three", Index: 0, Visible: true, Opacity: 1},
		},
		Order:         []string{"layer-3", "ghost"},
		ActiveLayerID: "ghost",
		NextLayerID:   2,
	})
	require.NoError(t, err)
	ids := []string{}
	for _, l := range m.Layers() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"layer-3", "layer-7"}, ids)
	assert.Equal(t, "layer-3", m.ActiveID())
	assert.Equal(t, "layer-8", m.CreateLayer("Next").ID)
}

func TestRecord_SparseDefaults(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"layers":[{"id":"layer-0","name":"Base"}],"layerOrder":["layer-0"]}`), &snap))

	m := NewManager(nil)
	require.NoError(t, m.Import(snap))
	l := m.Get("layer-0")
	require.NotNil(t, l)
	assert.True(t, l.Visible)
	assert.Equal(t, DefaultOpacity, l.Opacity)

	var hidden Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":"layer-1","visible":false,"opacity":0.25}`), &hidden))
	assert.False(t, hidden.Visible)
	assert.Equal(t, 0.25, hidden.Opacity)
}

func TestAddShape_SameLayerKeepsPosition(t *testing.T) {
	m := NewManager(nil)
	walls := m.CreateLayer("Walls")
	a, b, c := newShape(t), newShape(t), newShape(t)
	for _, s := range []*shape.Shape{a, b, c} {
		require.True(t, m.AddShape(s, walls.ID))
	}

	require.True(t, m.AddShape(a, walls.ID))
	require.True(t, m.MoveShapeToLayer(b, walls.ID))
	assert.Equal(t, []*shape.Shape{a, b, c}, walls.Shapes())
	assertExclusive(t, m, []*shape.Shape{a, b, c})
}
