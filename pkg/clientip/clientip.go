package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP, checking proxy headers in priority
// order: CF-Connecting-IP, X-Forwarded-For (first valid entry), X-Real-IP,
// then RemoteAddr. Invalid entries are skipped rather than trusted.
func FromRequest(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for entry := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(entry); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. in tests.
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an address, returning "" when invalid.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
