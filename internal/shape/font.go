package shape

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	ttfFont  *truetype.Font

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// Face returns a cached Go Regular face of the given point size. If the
// embedded font cannot be parsed it falls back to a fixed bitmap face.
func Face(size float64) font.Face {
	if size <= 0 {
		size = DefaultFontSize
	}
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			ttfFont = f
		}
	})
	if ttfFont == nil {
		return basicfont.Face7x13
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[size]; ok {
		return face
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faces[size] = face
	return face
}
