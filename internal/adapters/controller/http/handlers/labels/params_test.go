package labels

import (
	"testing"

	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleParamsApply(t *testing.T) {
	base := qr.LabelOptions()

	t.Run("empty keeps base", func(t *testing.T) {
		o, err := styleParams{}.apply(base)
		require.NoError(t, err)
		assert.Equal(t, base.Fingerprint(), o.Fingerprint())
	})

	t.Run("gradient none", func(t *testing.T) {
		o, err := styleParams{GradientKind: "none"}.apply(base)
		require.NoError(t, err)
		assert.Nil(t, o.Gradient)
		assert.Equal(t, base.Foreground, o.Foreground)
	})

	t.Run("full gradient", func(t *testing.T) {
		o, err := styleParams{GradientStart: "#000000", GradientEnd: "#203040", GradientKind: "radial"}.apply(base)
		require.NoError(t, err)
		require.NotNil(t, o.Gradient)
		assert.Equal(t, qr.GradientRadial, o.Gradient.Kind)
		assert.Equal(t, uint8(0x20), o.Gradient.End.R)
	})

	t.Run("kind change does not touch base", func(t *testing.T) {
		_, err := styleParams{GradientKind: "radial"}.apply(base)
		require.NoError(t, err)
		assert.Equal(t, qr.GradientDiagonal, base.Gradient.Kind)
	})

	t.Run("transparent background", func(t *testing.T) {
		o, err := styleParams{Background: "transparent"}.apply(base)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), o.Background.A)
	})

	for name, p := range map[string]styleParams{
		"half gradient":     {GradientEnd: "#000000"},
		"bad gradient kind": {GradientStart: "#000000", GradientEnd: "#111111", GradientKind: "spiral"},
		"bad background":    {Background: "#12"},
		"unreadable ink":    {Foreground: "#eeeeee"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.apply(base)
			assert.ErrorIs(t, err, qr.ErrInvalidOptions)
		})
	}
}
