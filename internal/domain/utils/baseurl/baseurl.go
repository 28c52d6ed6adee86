// Package baseurl resolves the public URL that label payloads point at.
package baseurl

import (
	"os"

	"github.com/courierhub/labelqr/internal/domain/common/errorz"
	"github.com/courierhub/labelqr/internal/domain/utils/validator"
	"github.com/spf13/viper"
)

// DefaultBaseURL is used when nothing else is configured.
const DefaultBaseURL = "http://localhost:8080"

// Source yields one candidate base URL; empty means not set.
type Source func() string

func ConfigKey(key string) Source {
	return func() string { return viper.GetString(key) }
}

func Env(name string) Source {
	return func() string { return os.Getenv(name) }
}

func Static(v string) Source {
	return func() string { return v }
}

// Resolver walks its sources in order and returns the first one that
// normalises to an http(s) URL.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Default is the chain used by the service: explicit setting, service host,
// platform environment variables and finally the configured default.
func Default() *Resolver {
	viper.SetDefault("qr.default-base-url", DefaultBaseURL)
	return NewResolver(
		ConfigKey("qr.base-url"),
		ConfigKey("service.host"),
		Env("APP_BASE_URL"),
		Env("RENDER_EXTERNAL_URL"),
		ConfigKey("qr.default-base-url"),
	)
}

func (r *Resolver) Resolve() (string, error) {
	for _, src := range r.sources {
		if u, err := validator.NormalizeHTTPURL(src()); err == nil {
			return u, nil
		}
	}
	return "", errorz.ErrNoBaseURL
}
