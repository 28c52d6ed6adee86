package qr

// ShapeVariant is the rendering style of a data module, chosen from which of
// its four direct neighbours are dark.
type ShapeVariant uint8

const (
	ShapeIsolated ShapeVariant = iota
	ShapeEndCap
	ShapeCorner
	ShapeStraight
	ShapeJunction
)

func (v ShapeVariant) String() string {
	switch v {
	case ShapeIsolated:
		return "isolated"
	case ShapeEndCap:
		return "end-cap"
	case ShapeCorner:
		return "corner"
	case ShapeStraight:
		return "straight"
	default:
		return "junction"
	}
}

// roundness scales the maximum corner radius.
func (v ShapeVariant) roundness() float64 {
	switch v {
	case ShapeIsolated:
		return 1
	case ShapeEndCap:
		return 0.85
	case ShapeCorner:
		return 0.65
	case ShapeStraight:
		return 0.4
	default:
		return 0.2
	}
}

// NeighborMask is a bitmask of dark direct neighbours.
type NeighborMask uint8

const (
	NeighborN NeighborMask = 1 << iota
	NeighborE
	NeighborS
	NeighborW
)

func (m NeighborMask) has(n NeighborMask) bool { return m&n != 0 }

func (m NeighborMask) count() int {
	c := 0
	for _, n := range [4]NeighborMask{NeighborN, NeighborE, NeighborS, NeighborW} {
		if m.has(n) {
			c++
		}
	}
	return c
}

// Variant classifies a neighbour mask.
func (m NeighborMask) Variant() ShapeVariant {
	switch m.count() {
	case 0:
		return ShapeIsolated
	case 1:
		return ShapeEndCap
	case 2:
		if m == NeighborN|NeighborS || m == NeighborE|NeighborW {
			return ShapeStraight
		}
		return ShapeCorner
	default:
		return ShapeJunction
	}
}

// dataNeighbors returns the dark direct neighbours that take part in organic
// rendering; finder zone modules are drawn separately and never join.
func dataNeighbors(m *Matrix, c Coord) NeighborMask {
	var mask NeighborMask
	probe := func(r, col int, bit NeighborMask) {
		if m.Dark(r, col) && !m.InFinderZone(r, col) {
			mask |= bit
		}
	}
	probe(c.Row-1, c.Col, NeighborN)
	probe(c.Row, c.Col+1, NeighborE)
	probe(c.Row+1, c.Col, NeighborS)
	probe(c.Row, c.Col-1, NeighborW)
	return mask
}

// moduleShape builds the outline of one data module. Sides facing a dark
// neighbour reach half a module into it so that adjacent shapes overlap
// instead of meeting at an anti-aliased seam. A corner is rounded only when
// both of its sides are free.
func moduleShape(g Layout, c Coord, mask NeighborMask, maxRadius float64) roundRect {
	x0, y0, x1, y1 := g.Cell(c)
	ext := g.ModuleSize / 2
	if mask.has(NeighborN) {
		y0 -= ext
	}
	if mask.has(NeighborE) {
		x1 += ext
	}
	if mask.has(NeighborS) {
		y1 += ext
	}
	if mask.has(NeighborW) {
		x0 -= ext
	}

	r := maxRadius * mask.Variant().roundness()
	corner := func(a, b NeighborMask) float64 {
		if mask.has(a) || mask.has(b) {
			return 0
		}
		return r
	}
	return roundRect{
		x0: x0, y0: y0, x1: x1, y1: y1,
		r: [4]float64{
			corner(NeighborN, NeighborW),
			corner(NeighborN, NeighborE),
			corner(NeighborS, NeighborE),
			corner(NeighborS, NeighborW),
		},
	}
}
