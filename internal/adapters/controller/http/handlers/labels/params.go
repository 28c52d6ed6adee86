package labels

import (
	"fmt"
	"strings"

	qr "github.com/courierhub/labelqr/pkg/qrcode"
)

// styleParams are the per-request overrides of the configured render options.
// Empty fields keep the configured value.
type styleParams struct {
	Format        string `form:"format" json:"format"`
	Foreground    string `form:"fg" json:"fg"`
	Background    string `form:"bg" json:"bg"`
	GradientStart string `form:"gradient_start" json:"gradient_start"`
	GradientEnd   string `form:"gradient_end" json:"gradient_end"`
	GradientKind  string `form:"gradient_kind" json:"gradient_kind"`
	Level         string `form:"level" json:"level"`
	Monochrome    *bool  `form:"mono" json:"mono"`
	ModuleSize    int    `form:"module_size" json:"module_size" binding:"omitempty,min=4,max=256"`
	BorderSize    *int   `form:"border" json:"border" binding:"omitempty,min=0"`
}

func (p styleParams) apply(base qr.Options) (qr.Options, error) {
	o := base
	var err error
	if p.Format != "" {
		if o.Format, err = qr.ParseFormat(p.Format); err != nil {
			return qr.Options{}, invalid("format", err)
		}
	}
	if p.Level != "" {
		if o.Level, err = qr.ParseLevel(p.Level); err != nil {
			return qr.Options{}, invalid("level", err)
		}
	}
	if p.Background != "" {
		if o.Background, err = qr.ParseColor(p.Background); err != nil {
			return qr.Options{}, invalid("bg", err)
		}
	}
	if p.Foreground != "" {
		if o.Foreground, err = qr.ParseColor(p.Foreground); err != nil {
			return qr.Options{}, invalid("fg", err)
		}
		// An explicit ink colour replaces the configured gradient.
		o.Gradient = nil
	}
	switch {
	case strings.EqualFold(p.GradientKind, "none"):
		o.Gradient = nil
	case p.GradientStart != "" || p.GradientEnd != "":
		if p.GradientStart == "" || p.GradientEnd == "" {
			return qr.Options{}, fmt.Errorf("%w: gradient needs both gradient_start and gradient_end", qr.ErrInvalidOptions)
		}
		g := &qr.Gradient{}
		if g.Start, err = qr.ParseColor(p.GradientStart); err != nil {
			return qr.Options{}, invalid("gradient_start", err)
		}
		if g.End, err = qr.ParseColor(p.GradientEnd); err != nil {
			return qr.Options{}, invalid("gradient_end", err)
		}
		if g.Kind, err = qr.ParseGradientKind(p.GradientKind); err != nil {
			return qr.Options{}, invalid("gradient_kind", err)
		}
		o.Gradient = g
	case p.GradientKind != "" && o.Gradient != nil:
		g := *o.Gradient
		if g.Kind, err = qr.ParseGradientKind(p.GradientKind); err != nil {
			return qr.Options{}, invalid("gradient_kind", err)
		}
		o.Gradient = &g
	}
	if p.Monochrome != nil {
		o.Monochrome = *p.Monochrome
	}
	if p.ModuleSize != 0 {
		o.ModuleSize = p.ModuleSize
	}
	if p.BorderSize != nil {
		o.BorderSize = *p.BorderSize
	}
	if err = o.Validate(); err != nil {
		return qr.Options{}, err
	}
	return o, nil
}

func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", qr.ErrInvalidOptions, field, err)
}
