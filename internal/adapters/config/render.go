package config

import (
	"fmt"
	"strings"

	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/spf13/viper"
)

// Provider returns the matrix encoder selected by qr.provider.
func Provider() (qr.MatrixProvider, error) {
	switch p := strings.ToLower(viper.GetString("qr.provider")); p {
	case "", "skip2":
		return qr.Skip2Provider{}, nil
	case "yeqown":
		return qr.YeqownProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown qr.provider %q", p)
	}
}

// defaultLogoModules is the logo width, in modules, used when
// qr.logo.diameter is unset.
const defaultLogoModules = 5

// RenderOptions builds the default render options from the qr.* keys.
func RenderOptions() (qr.Options, error) {
	o := qr.DefaultOptions()
	o.ModuleSize = viper.GetInt("qr.module-size")
	o.BorderSize = viper.GetInt("qr.border-size")
	o.MaxCornerRadius = viper.GetFloat64("qr.max-corner-radius")
	o.OcclusionBudget = viper.GetFloat64("qr.occlusion-budget")
	o.Monochrome = viper.GetBool("qr.monochrome")
	o.ThermalLogo = viper.GetBool("qr.thermal-logo")

	var err error
	if o.Background, err = qr.ParseColor(viper.GetString("qr.background")); err != nil {
		return qr.Options{}, fmt.Errorf("qr.background: %w", err)
	}
	if o.Foreground, err = qr.ParseColor(viper.GetString("qr.foreground")); err != nil {
		return qr.Options{}, fmt.Errorf("qr.foreground: %w", err)
	}
	if o.Level, err = qr.ParseLevel(viper.GetString("qr.level")); err != nil {
		return qr.Options{}, fmt.Errorf("qr.level: %w", err)
	}
	if o.Format, err = qr.ParseFormat(viper.GetString("qr.format")); err != nil {
		return qr.Options{}, fmt.Errorf("qr.format: %w", err)
	}

	if start, end := viper.GetString("qr.gradient.start"), viper.GetString("qr.gradient.end"); start != "" && end != "" {
		g := &qr.Gradient{}
		if g.Start, err = qr.ParseColor(start); err != nil {
			return qr.Options{}, fmt.Errorf("qr.gradient.start: %w", err)
		}
		if g.End, err = qr.ParseColor(end); err != nil {
			return qr.Options{}, fmt.Errorf("qr.gradient.end: %w", err)
		}
		if g.Kind, err = qr.ParseGradientKind(viper.GetString("qr.gradient.kind")); err != nil {
			return qr.Options{}, fmt.Errorf("qr.gradient.kind: %w", err)
		}
		o.Gradient = g
	}

	if path := viper.GetString("qr.logo.path"); path != "" {
		diameter := viper.GetInt("qr.logo.diameter")
		switch {
		case diameter < 0:
			return qr.Options{}, fmt.Errorf("qr.logo.diameter must be positive, got %d", diameter)
		case diameter == 0:
			diameter = defaultLogoModules * o.ModuleSize
		}
		o.Logo = &qr.Logo{
			Path:     path,
			Diameter: diameter,
			Zoom:     viper.GetFloat64("qr.logo.zoom"),
			Padding:  viper.GetInt("qr.logo.padding"),
		}
		if bg := viper.GetString("qr.logo.background"); bg != "" {
			c, err := qr.ParseColor(bg)
			if err != nil {
				return qr.Options{}, fmt.Errorf("qr.logo.background: %w", err)
			}
			o.Logo.Background = &c
		}
	}

	if err = o.Validate(); err != nil {
		return qr.Options{}, err
	}
	return o, nil
}
