package qr

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientKind selects how the gradient parameter runs across the symbol.
type GradientKind int

const (
	// GradientDiagonal runs from the top-left to the bottom-right corner.
	GradientDiagonal GradientKind = iota
	// GradientRadial runs from the centre to the corners.
	GradientRadial
)

func ParseGradientKind(s string) (GradientKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "diagonal", "linear":
		return GradientDiagonal, nil
	case "radial":
		return GradientRadial, nil
	}
	return 0, fmt.Errorf("unknown gradient kind %q", s)
}

type Gradient struct {
	Start, End color.NRGBA
	Kind       GradientKind
}

// MinContrastRatio is the lowest luminance contrast between any foreground
// colour and the background that the engine accepts.
const MinContrastRatio = 3.0

// ParseColor parses #rrggbb or the literal "transparent".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// luminance is the relative luminance of c. A fully transparent colour counts
// as white paper.
func luminance(c color.NRGBA) float64 {
	if c.A == 0 {
		return 1
	}
	r, g, b := toColorful(c).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func contrastRatio(a, b color.NRGBA) float64 {
	la, lb := luminance(a), luminance(b)
	return (math.Max(la, lb) + 0.05) / (math.Min(la, lb) + 0.05)
}

// checkContrast requires ink to be darker than bg by at least MinContrastRatio.
func checkContrast(ink, bg color.NRGBA) error {
	if luminance(ink) >= luminance(bg) {
		return fmt.Errorf("%w: #%02x%02x%02x is not darker than the background", ErrLowContrast, ink.R, ink.G, ink.B)
	}
	if ratio := contrastRatio(ink, bg); ratio < MinContrastRatio {
		return fmt.Errorf("%w: #%02x%02x%02x has ratio %.2f, need %.1f", ErrLowContrast, ink.R, ink.G, ink.B, ratio, MinContrastRatio)
	}
	return nil
}

func checkGradient(gr Gradient, bg color.NRGBA) error {
	if err := checkContrast(gr.Start, bg); err != nil {
		return fmt.Errorf("gradient start: %w", err)
	}
	if err := checkContrast(gr.End, bg); err != nil {
		return fmt.Errorf("gradient end: %w", err)
	}
	return nil
}

// blendLinear mixes src over dst with weight a in linear light.
func blendLinear(dst, src color.NRGBA, a float64) color.NRGBA {
	if a <= 0 {
		return dst
	}
	if a >= 1 {
		return src
	}
	if dst.A == 0 {
		out := src
		out.A = uint8(math.Round(float64(src.A) * a))
		return out
	}
	dr, dg, db := toColorful(dst).LinearRgb()
	sr, sg, sb := toColorful(src).LinearRgb()
	out := colorful.LinearRgb(dr+(sr-dr)*a, dg+(sg-dg)*a, db+(sb-db)*a)
	r, g, b := out.Clamped().RGB255()
	alpha := float64(dst.A) + (float64(src.A)-float64(dst.A))*a
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha))}
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

const gradientSteps = 1024

// gradientLUT precomputes the eased gradient. Interpolating in linear light
// keeps every intermediate luminance between the two endpoints, so endpoint
// contrast checks cover the whole ramp.
type gradientLUT struct {
	kind   GradientKind
	colors [gradientSteps]color.NRGBA
	x0, y0 float64
	span   float64
	centre Point
	radius float64
}

func newGradientLUT(gr Gradient, g Layout) *gradientLUT {
	lut := &gradientLUT{kind: gr.Kind}
	for i := range lut.colors {
		t := easeInOutCubic(float64(i) / (gradientSteps - 1))
		lut.colors[i] = blendLinear(gr.Start, gr.End, t)
	}
	lut.colors[0] = gr.Start
	lut.colors[gradientSteps-1] = gr.End

	side := float64(g.N) * g.ModuleSize
	lut.x0, lut.y0 = g.Border, g.Border
	lut.span = 2 * side
	lut.centre = g.CanvasCenter()
	lut.radius = side / math.Sqrt2
	return lut
}

func (l *gradientLUT) at(x, y int) color.NRGBA {
	px, py := float64(x)+0.5, float64(y)+0.5
	var t float64
	switch l.kind {
	case GradientRadial:
		t = math.Hypot(px-l.centre.X, py-l.centre.Y) / l.radius
	default:
		t = ((px - l.x0) + (py - l.y0)) / l.span
	}
	return l.colors[int(clamp01(t)*(gradientSteps-1)+0.5)]
}

// composite turns coverage into colour. Pixels with no coverage keep the
// exact background, fully covered pixels get the exact ink colour and edge
// pixels are blended in linear light.
func composite(c *Canvas, bg, fg color.NRGBA, lut *gradientLUT) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			a := c.ink[y*c.Width+x]
			if a <= 0 {
				img.SetNRGBA(x, y, bg)
				continue
			}
			ink := fg
			if lut != nil {
				ink = lut.at(x, y)
			}
			img.SetNRGBA(x, y, blendLinear(bg, ink, a))
		}
	}
	return img
}

// compositeBinary is the thermal compositor: no blending, no gradient.
func compositeBinary(c *Canvas, bg, fg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			if c.ink[y*c.Width+x] >= 0.5 {
				img.SetNRGBA(x, y, fg)
			} else {
				img.SetNRGBA(x, y, bg)
			}
		}
	}
	return img
}
