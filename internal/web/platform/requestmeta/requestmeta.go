// Package requestmeta derives request facts used by cookie policies.
package requestmeta

import (
	"net/http"
	"strings"
)

// IsHTTPS reports whether the request arrived over TLS, directly or
// through a forwarding proxy.
func IsHTTPS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))
	return strings.EqualFold(proto, "https")
}
