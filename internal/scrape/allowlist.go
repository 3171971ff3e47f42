package scrape

import (
	"errors"
	"net/url"
	"strings"
)

// ErrDisallowedDomain is returned when a URL's hostname does not end
// with any allow-listed government domain suffix.
var ErrDisallowedDomain = errors.New("URL must be from an official Indian government domain (*.gov.in or *.nic.in)")

// IsAllowedDomain reports whether the URL's hostname ends with one of
// the allow-listed suffixes. A URL that fails to parse is rejected;
// matching runs on the parsed hostname only, so a path like
// /pmkisan.gov.in on an attacker host can't slip through.
func IsAllowedDomain(rawURL string, allowed []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	hostname := strings.ToLower(u.Hostname())
	for _, domain := range allowed {
		if strings.HasSuffix(hostname, domain) {
			return true
		}
	}
	return false
}
