package qr

import "math"

// aaHalfWidth is half the width of the anti-aliasing band around an edge.
const aaHalfWidth = 1.0

// coverFunc maps a signed distance (negative inside) to coverage.
type coverFunc func(sd float64) float64

// smoothCoverage is 1 more than aaHalfWidth inside the edge, 0 more than
// aaHalfWidth outside, and linear in between.
func smoothCoverage(sd float64) float64 {
	return clamp01(0.5 - sd/(2*aaHalfWidth))
}

// stepCoverage is the bi-level equivalent used for thermal output.
func stepCoverage(sd float64) float64 {
	if sd <= 0 {
		return 1
	}
	return 0
}

// rasterizer fills module shapes, cluster contours and finder patterns into
// a coverage canvas.
type rasterizer struct {
	m         *Matrix
	g         Layout
	cover     coverFunc
	maxRadius float64
}

func (r *rasterizer) fillShape(c *Canvas, rr roundRect) {
	xa, xb := r.g.pixelSpan(rr.x0, rr.x1, aaHalfWidth+1)
	ya, yb := r.g.pixelSpan(rr.y0, rr.y1, aaHalfWidth+1)
	for y := ya; y < yb; y++ {
		py := float64(y) + 0.5
		for x := xa; x < xb; x++ {
			if v := r.cover(rr.sdf(float64(x)+0.5, py)); v > 0 {
				c.cover(x, y, v)
			}
		}
	}
}

func (r *rasterizer) drawModule(c *Canvas, mod Coord) {
	mask := dataNeighbors(r.m, mod)
	r.fillShape(c, moduleShape(r.g, mod, mask, r.maxRadius))
}

// fillContour fills the seams between 4-adjacent modules of a cluster where
// they lie inside the cluster outline. A seam spans the two half cells on
// either side of the shared edge, so it never reaches a corner that
// moduleShape left free, and light modules are never touched.
func (r *rasterizer) fillContour(c *Canvas, cl Cluster, ct Contour) {
	if ct.Empty() {
		return
	}
	half := r.g.ModuleSize / 2
	for _, mod := range cl.Modules {
		mask := dataNeighbors(r.m, mod)
		x0, y0, x1, y1 := r.g.Cell(mod)
		if mask.has(NeighborE) {
			r.fillSeam(c, ct, x1-half, y0, x1+half, y1)
		}
		if mask.has(NeighborS) {
			r.fillSeam(c, ct, x0, y1-half, x1, y1+half)
		}
	}
}

func (r *rasterizer) fillSeam(c *Canvas, ct Contour, x0, y0, x1, y1 float64) {
	xa, xb := r.g.pixelSpan(x0, x1, 0)
	ya, yb := r.g.pixelSpan(y0, y1, 0)
	for y := ya; y < yb; y++ {
		for x := xa; x < xb; x++ {
			if c.Ink(x, y) >= 1 {
				continue
			}
			p := Point{float64(x) + 0.5, float64(y) + 0.5}
			if v := r.cover(polygonSDF(p, ct.Points)); v > 0 {
				c.cover(x, y, v)
			}
		}
	}
}

// Finder corner radii in modules. They are fixed so the locator rings keep
// their area ratios whatever the data module styling is.
const (
	finderOuterRadius = 1.5
	finderHoleRadius  = 1.0
	finderCoreRadius  = 0.75
)

// drawFinders clears each finder zone and draws the nested 7/5/3 squares.
func (r *rasterizer) drawFinders(c *Canvas) {
	ms := r.g.ModuleSize
	for _, o := range r.m.FinderOrigins() {
		x0, y0, _, _ := r.g.Cell(o)
		side := finderSize * ms
		outer := uniformRoundRect(x0, y0, x0+side, y0+side, finderOuterRadius*ms)
		hole := uniformRoundRect(x0+ms, y0+ms, x0+side-ms, y0+side-ms, finderHoleRadius*ms)
		core := uniformRoundRect(x0+2*ms, y0+2*ms, x0+side-2*ms, y0+side-2*ms, finderCoreRadius*ms)

		xa, xb := r.g.pixelSpan(x0, x0+side, 0)
		ya, yb := r.g.pixelSpan(y0, y0+side, 0)
		c.clear(xa, ya, xb, yb)

		xa, xb = r.g.pixelSpan(x0, x0+side, aaHalfWidth+1)
		ya, yb = r.g.pixelSpan(y0, y0+side, aaHalfWidth+1)
		for y := ya; y < yb; y++ {
			py := float64(y) + 0.5
			for x := xa; x < xb; x++ {
				px := float64(x) + 0.5
				ring := math.Min(r.cover(outer.sdf(px, py)), 1-r.cover(hole.sdf(px, py)))
				v := math.Max(ring, r.cover(core.sdf(px, py)))
				if v > 0 {
					c.cover(x, y, v)
				}
			}
		}
	}
}

// rasterize runs the full coverage pass: data modules, cluster contours and
// finally the finder patterns, which overwrite their zones.
func (r *rasterizer) rasterize(clusters []Cluster, contours []Contour) *Canvas {
	c := NewCanvas(r.g.Side, r.g.Side)
	for _, cl := range clusters {
		for _, mod := range cl.Modules {
			r.drawModule(c, mod)
		}
	}
	for i, cl := range clusters {
		r.fillContour(c, cl, contours[i])
	}
	r.drawFinders(c)
	return c
}
