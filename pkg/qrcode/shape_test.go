package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighborMaskVariant(t *testing.T) {
	tests := []struct {
		mask NeighborMask
		want ShapeVariant
	}{
		{0, ShapeIsolated},
		{NeighborN, ShapeEndCap},
		{NeighborW, ShapeEndCap},
		{NeighborN | NeighborE, ShapeCorner},
		{NeighborS | NeighborW, ShapeCorner},
		{NeighborN | NeighborS, ShapeStraight},
		{NeighborE | NeighborW, ShapeStraight},
		{NeighborN | NeighborE | NeighborS, ShapeJunction},
		{NeighborN | NeighborE | NeighborS | NeighborW, ShapeJunction},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mask.Variant())
		})
	}
}

func TestVariantRoundnessDecreases(t *testing.T) {
	order := []ShapeVariant{ShapeIsolated, ShapeEndCap, ShapeCorner, ShapeStraight, ShapeJunction}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i].roundness(), order[i-1].roundness(), order[i].String())
	}
}

func TestDataNeighborsIgnoreFinders(t *testing.T) {
	// (7,3) sits directly under the bottom ring of the top-left finder.
	m := syntheticMatrix(t, 21, LevelM, Coord{8, 1}, Coord{9, 1}, Coord{8, 2}, Coord{7, 3})
	assert.Equal(t, NeighborS|NeighborE, dataNeighbors(m, Coord{8, 1}))
	assert.Equal(t, NeighborMask(0), dataNeighbors(m, Coord{7, 3}))
}

func TestModuleShape(t *testing.T) {
	g := NewLayout(21, 10, 0)
	c := Coord{10, 10}

	iso := moduleShape(g, c, 0, 5)
	assert.Equal(t, [4]float64{5, 5, 5, 5}, iso.r)
	assert.Equal(t, 100.0, iso.x0)
	assert.Equal(t, 110.0, iso.x1)

	east := moduleShape(g, c, NeighborE, 5)
	assert.Equal(t, 115.0, east.x1)
	assert.Equal(t, 0.0, east.r[1])
	assert.Equal(t, 0.0, east.r[2])
	assert.Greater(t, east.r[0], 0.0)
	assert.Greater(t, east.r[3], 0.0)
}
