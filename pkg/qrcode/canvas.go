package qr

// Canvas holds per-pixel foreground coverage in [0,1]. Colour is applied
// later by the compositor, so every stage before it works on coverage only.
type Canvas struct {
	Width, Height int
	ink           []float64
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, ink: make([]float64, w*h)}
}

func (c *Canvas) Ink(x, y int) float64 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.ink[y*c.Width+x]
}

// cover raises the coverage of a pixel to v. Overlapping shapes therefore
// form a union instead of stacking alpha, which keeps seams invisible.
func (c *Canvas) cover(x, y int, v float64) {
	i := y*c.Width + x
	if v > c.ink[i] {
		c.ink[i] = v
	}
}

func (c *Canvas) clear(x0, y0, x1, y1 int) {
	for y := max(y0, 0); y < min(y1, c.Height); y++ {
		row := c.ink[y*c.Width : (y+1)*c.Width]
		for x := max(x0, 0); x < min(x1, c.Width); x++ {
			row[x] = 0
		}
	}
}
