package qr

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
)

// thermalRadiusScale shrinks corner radii for print heads, which round small
// curves away on their own.
const thermalRadiusScale = 0.5

// binarizeLogo maps the logo to exactly fg and bg. Pixels that are mostly
// transparent are treated as light.
func binarizeLogo(src image.Image, fg, bg color.NRGBA) image.Image {
	b := src.Bounds()
	flat := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if c.A < 128 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			c.A = 255
			flat.SetNRGBA(x, y, c)
		}
	}
	gray := segment.Threshold(flat, 128)
	gb := gray.Bounds()

	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.GrayAt(gb.Min.X+x-b.Min.X, gb.Min.Y+y-b.Min.Y).Y == 0 {
				out.SetNRGBA(x, y, fg)
			} else {
				out.SetNRGBA(x, y, bg)
			}
		}
	}
	return out
}

// toPaletted re-encodes a bi-level image as a two-entry palette so the PNG
// and BMP encoders can write it at one bit per pixel.
func toPaletted(img *image.NRGBA, bg, fg color.NRGBA) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, color.Palette{bg, fg})
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == fg && fg != bg {
				out.SetColorIndex(x, y, 1)
			}
		}
	}
	return out
}
