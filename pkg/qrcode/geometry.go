package qr

import (
	"math"
	"sort"
)

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) length() float64 { return math.Hypot(p.X, p.Y) }
func midpoint(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }
func cross(o, a, b Point) float64 { return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X) }
func distSq(a, b Point) float64 { return (a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) }
func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// convexHull returns the hull of pts with a Graham scan. Collinear points are
// dropped, so the result can have fewer than three vertices.
func convexHull(pts []Point) []Point {
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}
	pivot := 0
	for i, p := range pts {
		q := pts[pivot]
		if p.Y > q.Y || (p.Y == q.Y && p.X < q.X) {
			pivot = i
		}
	}
	p0 := pts[pivot]
	rest := make([]Point, 0, len(pts)-1)
	for i, p := range pts {
		if i != pivot {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		c := cross(p0, rest[i], rest[j])
		if c != 0 {
			return c < 0
		}
		return distSq(p0, rest[i]) < distSq(p0, rest[j])
	})

	hull := []Point{p0}
	for _, p := range rest {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) >= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	if len(hull) >= 3 && cross(hull[len(hull)-2], hull[len(hull)-1], p0) >= 0 {
		hull = hull[:len(hull)-1]
	}
	return hull
}

func quadBezier(p0, ctrl, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*ctrl.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*ctrl.Y + t*t*p1.Y,
	}
}

func distToSegment(p, a, b Point) float64 {
	ab := b.sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.sub(a).length()
	}
	t := clamp01(((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2)
	return p.sub(a.add(ab.scale(t))).length()
}

func pointInPolygon(p Point, poly []Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// polygonSDF is the signed distance from p to the closed polygon outline,
// negative inside.
func polygonSDF(p Point, poly []Point) float64 {
	d := math.Inf(1)
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		d = math.Min(d, distToSegment(p, poly[j], poly[i]))
	}
	if pointInPolygon(p, poly) {
		return -d
	}
	return d
}

// roundRect is an axis-aligned rectangle with per-corner radii ordered
// top-left, top-right, bottom-right, bottom-left.
type roundRect struct {
	x0, y0, x1, y1 float64
	r              [4]float64
}

// sdf returns the signed distance to the outline, negative inside.
func (rr roundRect) sdf(px, py float64) float64 {
	hw := (rr.x1 - rr.x0) / 2
	hh := (rr.y1 - rr.y0) / 2
	dx := px - (rr.x0 + hw)
	dy := py - (rr.y0 + hh)

	var rad float64
	switch {
	case dx < 0 && dy < 0:
		rad = rr.r[0]
	case dy < 0:
		rad = rr.r[1]
	case dx >= 0:
		rad = rr.r[2]
	default:
		rad = rr.r[3]
	}
	rad = math.Min(rad, math.Min(hw, hh))

	qx := math.Abs(dx) - hw + rad
	qy := math.Abs(dy) - hh + rad
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - rad
}

func uniformRoundRect(x0, y0, x1, y1, r float64) roundRect {
	return roundRect{x0: x0, y0: y0, x1: x1, y1: y1, r: [4]float64{r, r, r, r}}
}
