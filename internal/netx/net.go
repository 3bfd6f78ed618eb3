// Package netx contains HTTP request helpers.
package netx

import (
	"net"
	"net/http"
	"strings"
)

// AnonymousAddress stands in for the client address when nothing identifies
// the caller.
const AnonymousAddress = "anon"

// ClientIP returns the caller address as reported by the edge proxy:
// CF-Connecting-IP first, then the first X-Forwarded-For hop, then the socket
// peer address.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return AnonymousAddress
}
