package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// stampFinder draws a 7x7 finder pattern with its top-left module at (r0, c0).
func stampFinder(rows [][]bool, r0, c0 int) {
	for r := 0; r < finderSize; r++ {
		for c := 0; c < finderSize; c++ {
			ring := r == 0 || c == 0 || r == finderSize-1 || c == finderSize-1
			core := r >= 2 && r <= 4 && c >= 2 && c <= 4
			rows[r0+r][c0+c] = ring || core
		}
	}
}

// syntheticMatrix builds an n×n matrix with the three finders and the given
// dark data modules.
func syntheticMatrix(t *testing.T, n int, level Level, dark ...Coord) *Matrix {
	t.Helper()
	rows := make([][]bool, n)
	for i := range rows {
		rows[i] = make([]bool, n)
	}
	stampFinder(rows, 0, 0)
	stampFinder(rows, 0, n-finderSize)
	stampFinder(rows, n-finderSize, 0)
	for _, c := range dark {
		rows[c.Row][c.Col] = true
	}
	m, err := NewMatrix(rows, level)
	require.NoError(t, err)
	return m
}

// checkerMatrix fills the data area with a pattern that mixes every shape
// variant: solid blocks, lines, diagonals and isolated modules.
func checkerMatrix(t *testing.T, n int, level Level) *Matrix {
	t.Helper()
	var dark []Coord
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if (r < 8 && c < 8) || (r < 8 && c >= n-8) || (r >= n-8 && c < 8) {
				continue
			}
			if (r*7+c*3)%5 < 2 || (r%6 == 0 && c%4 != 0) {
				dark = append(dark, Coord{r, c})
			}
		}
	}
	return syntheticMatrix(t, n, level, dark...)
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// sampleDark classifies the pixel a scanner reads for a module: whichever
// of ink and paper luminance it is closer to. Transparent paper reads as white.
func sampleDark(img image.Image, g Layout, c Coord, ink, paper color.NRGBA) bool {
	x, y := g.SamplePixel(c)
	px := nrgbaAt(img, x, y)
	if px.A < 255 {
		px = blendLinear(white, color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255}, float64(px.A)/255)
	}
	mid := (luminance(ink) + luminance(paper)) / 2
	return luminance(px) < mid
}

// mismatches lists modules whose rendered colour disagrees with the matrix.
// skip excludes modules from the comparison.
func mismatches(img image.Image, m *Matrix, g Layout, ink, paper color.NRGBA, skip func(Coord) bool) []Coord {
	var bad []Coord
	for r := 0; r < m.Size(); r++ {
		for c := 0; c < m.Size(); c++ {
			co := Coord{r, c}
			if skip != nil && skip(co) {
				continue
			}
			if sampleDark(img, g, co, ink, paper) != m.Dark(r, c) {
				bad = append(bad, co)
			}
		}
	}
	return bad
}

func testLogo(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: 40, B: uint8(y * 255 / h), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
