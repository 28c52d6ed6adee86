package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Logo is an optional image placed in a circle at the symbol centre.
type Logo struct {
	// Path is read with gg.LoadImage when Data is empty.
	Path string
	Data []byte
	// Diameter of the logo circle in pixels.
	Diameter int
	// Zoom > 1 crops tighter into the centre of the source image.
	Zoom float64
	// Padding is the ring of patch colour around the logo, in pixels.
	Padding int
	// Background is the patch colour. Nil means the render background.
	Background *color.NRGBA
}

// DefaultOcclusionBudget is the fraction of the symbol area a logo patch may
// cover at the highest error-correction level.
const DefaultOcclusionBudget = 0.1

func loadLogo(l *Logo) (image.Image, error) {
	if len(l.Data) > 0 {
		img, _, err := image.Decode(bytes.NewReader(l.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: decode logo: %w", ErrAssetMissing, err)
		}
		return img, nil
	}
	if l.Path == "" {
		return nil, fmt.Errorf("%w: logo has neither path nor data", ErrAssetMissing)
	}
	if _, err := os.Stat(l.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetMissing, err)
	}
	img, err := gg.LoadImage(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrAssetMissing, l.Path, err)
	}
	return img, nil
}

// prepareLogo crops a centred square of side min(w,h)/zoom and scales it to
// d×d pixels.
func prepareLogo(src image.Image, d int, zoom float64) image.Image {
	if zoom < 1 {
		zoom = 1
	}
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := max(int(math.Round(float64(side)/zoom)), 1)
	cropped := imaging.CropCenter(src, crop, crop)
	return resize.Resize(uint(d), uint(d), cropped, resize.Bilinear)
}

// logoPatch is the circle placed over the symbol centre.
type logoPatch struct {
	centre Point
	// radius of the patch and of the logo inside it.
	radius, logoRadius float64
}

// planLogoPatch sizes the patch. It is shrunk to the occlusion budget and so
// that it stays at least one module away from every finder zone. Shrinking
// for the budget is reported as a warning.
func planLogoPatch(l *Logo, g Layout, budget float64) (logoPatch, error) {
	p := logoPatch{
		centre:     g.CanvasCenter(),
		logoRadius: float64(l.Diameter) / 2,
	}
	p.radius = p.logoRadius + float64(l.Padding)

	var warn error
	limit := math.Sqrt(budget * g.SymbolArea() / math.Pi)
	if p.radius > limit {
		warn = fmt.Errorf("%w: patch radius %.1fpx clamped to %.1fpx (%.0f%% of symbol area)",
			ErrOcclusionBudgetExceeded, p.radius, limit, budget*100)
		p.radius = limit
	}

	// Distance from the centre to the inner corner of a finder zone.
	inner := (float64(g.N)/2 - finderSize) * g.ModuleSize * math.Sqrt2
	if finderLimit := inner - g.ModuleSize; p.radius > finderLimit {
		p.radius = math.Max(finderLimit, 0)
	}
	if p.logoRadius > p.radius {
		p.logoRadius = p.radius
	}
	return p, warn
}

// occludes reports whether the patch, including its anti-aliasing band,
// touches any pixel of the module cell.
func (p logoPatch) occludes(g Layout, c Coord) bool {
	x0, y0, x1, y1 := g.Cell(c)
	nx := math.Max(x0, math.Min(p.centre.X, x1))
	ny := math.Max(y0, math.Min(p.centre.Y, y1))
	return math.Hypot(nx-p.centre.X, ny-p.centre.Y) < p.radius+aaHalfWidth+1
}

// logoTexel maps a pixel centre to the logo column or row under it. Points
// left of or above the logo land below lo.
func logoTexel(p, origin float64, lo int) int {
	return lo + int(math.Floor(p-origin))
}

// compositeLogo draws the patch and the masked logo into img. cover decides
// how hard the circle edges are.
func compositeLogo(img *image.NRGBA, logo image.Image, p logoPatch, patchColor color.NRGBA, cover coverFunc) {
	if p.radius <= 0 {
		return
	}
	b := img.Bounds()
	x0 := max(int(math.Floor(p.centre.X-p.radius-aaHalfWidth)), b.Min.X)
	x1 := min(int(math.Ceil(p.centre.X+p.radius+aaHalfWidth)), b.Max.X)
	y0 := max(int(math.Floor(p.centre.Y-p.radius-aaHalfWidth)), b.Min.Y)
	y1 := min(int(math.Ceil(p.centre.Y+p.radius+aaHalfWidth)), b.Max.Y)

	var lb image.Rectangle
	if logo != nil {
		lb = logo.Bounds()
	}
	lx := p.centre.X - p.logoRadius
	ly := p.centre.Y - p.logoRadius

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			d := math.Hypot(px-p.centre.X, py-p.centre.Y)
			if a := cover(d - p.radius); a > 0 {
				img.SetNRGBA(x, y, blendLinear(img.NRGBAAt(x, y), patchColor, a))
			}
			if logo == nil {
				continue
			}
			a := cover(d - p.logoRadius)
			if a <= 0 {
				continue
			}
			sx := logoTexel(px, lx, lb.Min.X)
			sy := logoTexel(py, ly, lb.Min.Y)
			if sx < lb.Min.X || sy < lb.Min.Y || sx >= lb.Max.X || sy >= lb.Max.Y {
				continue
			}
			src := color.NRGBAModel.Convert(logo.At(sx, sy)).(color.NRGBA)
			a *= float64(src.A) / 255
			src.A = 255
			img.SetNRGBA(x, y, blendLinear(img.NRGBAAt(x, y), src, a))
		}
	}
}
