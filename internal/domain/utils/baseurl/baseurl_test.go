package baseurl

import (
	"testing"

	"github.com/courierhub/labelqr/internal/domain/common/errorz"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverOrder(t *testing.T) {
	r := NewResolver(Static(""), Static("ftp://nope"), Static("track.example/"), Static("http://late.example"))
	got, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "https://track.example", got)
}

func TestResolverNone(t *testing.T) {
	_, err := NewResolver(Static(""), Static("  ")).Resolve()
	assert.ErrorIs(t, err, errorz.ErrNoBaseURL)
}

func TestDefaultChain(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	t.Setenv("APP_BASE_URL", "")
	t.Setenv("RENDER_EXTERNAL_URL", "")

	got, err := Default().Resolve()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, got)

	t.Setenv("RENDER_EXTERNAL_URL", "https://labels.onrender.example")
	got, err = Default().Resolve()
	require.NoError(t, err)
	assert.Equal(t, "https://labels.onrender.example", got)

	viper.Set("service.host", "https://api.courier.example/")
	got, err = Default().Resolve()
	require.NoError(t, err)
	assert.Equal(t, "https://api.courier.example", got)

	viper.Set("qr.base-url", "https://t.courier.example")
	got, err = Default().Resolve()
	require.NoError(t, err)
	assert.Equal(t, "https://t.courier.example", got)
}
