package qr

import "math"

// Layout maps matrix coordinates to canvas pixels.
type Layout struct {
	N          int
	ModuleSize float64
	Border     float64
	Side       int
}

func NewLayout(n, moduleSize, border int) Layout {
	return Layout{
		N:          n,
		ModuleSize: float64(moduleSize),
		Border:     float64(border),
		Side:       n*moduleSize + 2*border,
	}
}

// Cell returns the pixel bounds of a module.
func (g Layout) Cell(c Coord) (x0, y0, x1, y1 float64) {
	x0 = g.Border + float64(c.Col)*g.ModuleSize
	y0 = g.Border + float64(c.Row)*g.ModuleSize
	return x0, y0, x0 + g.ModuleSize, y0 + g.ModuleSize
}

// Center is the geometric centre of a module.
func (g Layout) Center(c Coord) Point {
	x0, y0, _, _ := g.Cell(c)
	return Point{x0 + g.ModuleSize/2, y0 + g.ModuleSize/2}
}

// SamplePixel is the pixel a scanner would read for the module: the pixel
// containing the module centre.
func (g Layout) SamplePixel(c Coord) (x, y int) {
	p := g.Center(c)
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// CanvasCenter is the centre of the whole image.
func (g Layout) CanvasCenter() Point {
	return Point{float64(g.Side) / 2, float64(g.Side) / 2}
}

// SymbolArea is the area of the module grid in square pixels.
func (g Layout) SymbolArea() float64 {
	s := float64(g.N) * g.ModuleSize
	return s * s
}

// pixelSpan converts a float interval into the clipped range of pixel
// indices whose centres may fall inside it, padded by pad pixels.
func (g Layout) pixelSpan(lo, hi, pad float64) (int, int) {
	a := int(math.Floor(lo - pad))
	b := int(math.Ceil(hi + pad))
	if a < 0 {
		a = 0
	}
	if b > g.Side {
		b = g.Side
	}
	return a, b
}
