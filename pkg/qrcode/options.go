package qr

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
)

const (
	MinModuleSize = 4
	MaxModuleSize = 256
	// MaxCanvasSide bounds the output so a single render stays in memory.
	MaxCanvasSide = 16384
	// MaxOcclusionBudget is the largest share of the symbol a logo may cover.
	MaxOcclusionBudget = 0.25
)

// Options configures a render. The zero value is not valid; start from one
// of the presets in codes.go.
type Options struct {
	ModuleSize int
	BorderSize int
	// MaxCornerRadius caps module corner rounding in pixels. Zero means half
	// a module.
	MaxCornerRadius float64

	Background color.NRGBA
	Foreground color.NRGBA
	Gradient   *Gradient

	Logo            *Logo
	OcclusionBudget float64

	// Monochrome selects the bi-level thermal path.
	Monochrome  bool
	ThermalLogo bool

	Level  Level
	Format Format
}

// Validate reports malformed options. All failures wrap ErrInvalidOptions.
func (o Options) Validate() error {
	if o.ModuleSize < MinModuleSize || o.ModuleSize > MaxModuleSize {
		return fmt.Errorf("%w: module size %d out of range [%d, %d]", ErrInvalidOptions, o.ModuleSize, MinModuleSize, MaxModuleSize)
	}
	if o.BorderSize < 0 {
		return fmt.Errorf("%w: negative border size %d", ErrInvalidOptions, o.BorderSize)
	}
	if o.MaxCornerRadius < 0 {
		return fmt.Errorf("%w: negative corner radius %.2f", ErrInvalidOptions, o.MaxCornerRadius)
	}
	if !o.Level.valid() {
		return fmt.Errorf("%w: unknown level %s", ErrInvalidOptions, o.Level)
	}
	switch o.Format {
	case FormatPNG, FormatJPEG, FormatBMP:
	default:
		return fmt.Errorf("%w: unknown format %d", ErrInvalidOptions, int(o.Format))
	}
	if o.OcclusionBudget < 0 || o.OcclusionBudget > MaxOcclusionBudget {
		return fmt.Errorf("%w: occlusion budget %.2f out of range [0, %.2f]", ErrInvalidOptions, o.OcclusionBudget, MaxOcclusionBudget)
	}
	if o.Foreground.A != 255 {
		return fmt.Errorf("%w: foreground must be opaque", ErrInvalidOptions)
	}
	if err := checkContrast(o.Foreground, o.Background); err != nil {
		return fmt.Errorf("%w: foreground: %w", ErrInvalidOptions, err)
	}
	if l := o.Logo; l != nil {
		if l.Diameter <= 0 {
			return fmt.Errorf("%w: logo diameter must be positive", ErrInvalidOptions)
		}
		if l.Zoom < 0 {
			return fmt.Errorf("%w: negative logo zoom", ErrInvalidOptions)
		}
		if l.Padding < 0 {
			return fmt.Errorf("%w: negative logo padding", ErrInvalidOptions)
		}
	}
	return nil
}

func (o Options) checkCanvas(n int) error {
	if side := n*o.ModuleSize + 2*o.BorderSize; side > MaxCanvasSide {
		return fmt.Errorf("%w: canvas side %dpx exceeds %dpx", ErrInvalidOptions, side, MaxCanvasSide)
	}
	return nil
}

func (o Options) cornerRadius() float64 {
	half := float64(o.ModuleSize) / 2
	if o.MaxCornerRadius == 0 || o.MaxCornerRadius > half {
		return half
	}
	return o.MaxCornerRadius
}

func (o Options) occlusionBudget() float64 {
	if o.OcclusionBudget == 0 {
		return DefaultOcclusionBudget
	}
	return o.OcclusionBudget
}

func (o Options) outputFormat() Format {
	if o.Monochrome && o.Format == FormatJPEG {
		return FormatPNG
	}
	return o.Format
}

// Fingerprint identifies the rendered output of these options. Logo data is
// hashed rather than included.
func (o Options) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%g|%v|%v|%v|%t|%t|%s|%g|%s",
		o.ModuleSize, o.BorderSize, o.MaxCornerRadius, o.Background, o.Foreground,
		o.Gradient != nil, o.Monochrome, o.ThermalLogo, o.Level, o.OcclusionBudget, o.Format)
	if g := o.Gradient; g != nil {
		fmt.Fprintf(h, "|g:%v|%v|%d", g.Start, g.End, g.Kind)
	}
	if l := o.Logo; l != nil {
		fmt.Fprintf(h, "|l:%s|%d|%g|%d|", l.Path, l.Diameter, l.Zoom, l.Padding)
		if l.Background != nil {
			fmt.Fprintf(h, "%v|", *l.Background)
		}
		h.Write(l.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
