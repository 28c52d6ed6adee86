package qr

import "image/color"

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// DefaultOptions renders plain black on white at level M.
func DefaultOptions() Options {
	return Options{
		ModuleSize: 10,
		BorderSize: 40,
		Background: white,
		Foreground: black,
		Level:      LevelM,
		Format:     FormatPNG,
	}
}

// LabelOptions is the colour shipping label style: a navy to teal diagonal
// gradient at level H so a logo can be added.
func LabelOptions() Options {
	o := DefaultOptions()
	o.ModuleSize = 12
	o.BorderSize = 24
	o.Foreground = color.NRGBA{R: 16, G: 32, B: 64, A: 255}
	o.Gradient = &Gradient{
		Start: color.NRGBA{R: 16, G: 32, B: 64, A: 255},
		End:   color.NRGBA{R: 0, G: 92, B: 92, A: 255},
		Kind:  GradientDiagonal,
	}
	o.Level = LevelH
	return o
}

// ThermalOptions targets 203 dpi label printers.
func ThermalOptions() Options {
	o := DefaultOptions()
	o.ModuleSize = 8
	o.BorderSize = 32
	o.Monochrome = true
	o.Level = LevelQ
	return o
}
