package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const maxURLLength = 2048

// NormalizeHTTPURL trims s, adds https:// when the scheme is missing and
// requires an http(s) URL with a host. The result has no trailing slash.
func NormalizeHTTPURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("empty url")
	}
	if len(v) > maxURLLength {
		return "", fmt.Errorf("url is too long")
	}
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https urls are supported")
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", fmt.Errorf("url must include a host")
	}
	u.RawQuery, u.Fragment = "", ""
	return strings.TrimRight(u.String(), "/"), nil
}

var trackingCodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// TrackingCode reports whether code is a carrier tracking code that is safe to
// put in a URL path.
func TrackingCode(code string) bool {
	return trackingCodeRe.MatchString(strings.TrimSpace(code))
}
