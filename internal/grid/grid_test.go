package grid

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
)

func TestSnap(t *testing.T) {
	g := New(20)
	tests := []struct {
		x, y, wantX, wantY float64
	}{
		{0, 0, 0, 0},
		{9, 11, 0, 20},
		{100, 0, 100, 0},
		{97, -31, 100, -40},
		{-9.9, 29.9, 0, 20},
	}
	for _, tt := range tests {
		x, y := g.Snap(tt.x, tt.y)
		assert.Equal(t, tt.wantX, x, "x for (%v,%v)", tt.x, tt.y)
		assert.Equal(t, tt.wantY, y, "y for (%v,%v)", tt.x, tt.y)
	}
}

func TestSnap_RelativeToOffset(t *testing.T) {
	g := New(20)
	g.SetOffset(5, 7)
	x, y := g.Snap(14, 18)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 27.0, y)
}

func TestSnap_Disabled(t *testing.T) {
	g := New(20)
	g.SetSnap(false)
	x, y := g.Snap(13.3, 7.1)
	assert.Equal(t, 13.3, x)
	assert.Equal(t, 7.1, y)
	x, y = g.MajorSnap(13.3, 7.1)
	assert.Equal(t, 13.3, x)
	assert.Equal(t, 7.1, y)
}

func TestMajorSnap(t *testing.T) {
	g := New(20)
	assert.Equal(t, 100.0, g.MajorSize())
	x, y := g.MajorSnap(149, 151)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 200.0, y)
}

func TestSnap_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, size := range []float64{1, 7, 20, 33} {
		g := New(size)
		g.SetOffset(float64(r.Intn(50)-25), float64(r.Intn(50)-25))
		for i := 0; i < 200; i++ {
			x, y := r.Float64()*2000-1000, r.Float64()*2000-1000
			sx, sy := g.Snap(x, y)
			sx2, sy2 := g.Snap(sx, sy)
			assert.Equal(t, sx, sx2)
			assert.Equal(t, sy, sy2)
		}
	}
}

func TestScreenGridInverse(t *testing.T) {
	g := New(20)
	g.Pan(37, -12)
	for _, p := range [][2]float64{{0, 0}, {100, 250}, {-40, 3}} {
		gx, gy := g.ScreenToGrid(p[0], p[1])
		sx, sy := g.GridToScreen(gx, gy)
		assert.Equal(t, p[0], sx)
		assert.Equal(t, p[1], sy)
	}
	gx, gy := g.ScreenToGrid(37, -12)
	assert.Equal(t, 0.0, gx)
	assert.Equal(t, 0.0, gy)
}

func TestSetSize_Floor(t *testing.T) {
	g := New(0)
	assert.Equal(t, 1.0, g.Size())
	g.SetSize(-5)
	assert.Equal(t, 1.0, g.Size())
	g.SetSize(25)
	assert.Equal(t, 25.0, g.Size())
}

func TestDraw(t *testing.T) {
	dc := gg.NewContext(100, 100)
	dc.SetColor(color.White)
	dc.Clear()

	g := New(20)
	g.SetOffset(50, 50)
	g.Draw(dc, 100, 100)

	r, gr, b, _ := dc.Image().At(50, 50).RGBA()
	assert.Greater(t, r, gr, "origin cross is red")
	assert.Equal(t, gr, b)

	// cell interior stays white
	r, _, _, _ = dc.Image().At(60, 60).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestDraw_Hidden(t *testing.T) {
	dc := gg.NewContext(40, 40)
	dc.SetColor(color.White)
	dc.Clear()
	g := New(10)
	g.SetVisible(false)
	g.Draw(dc, 40, 40)
	r, _, _, _ := dc.Image().At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}
