// Package clientip resolves the visitor address behind proxies and CDNs.
//
// Headers are checked in order: CF-Connecting-IP, DO-Connecting-IP, the leftmost
// X-Forwarded-For entry, X-Real-IP, then RemoteAddr. Values that do not parse as an IP,
// and 0.0.0.0, are skipped.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

var headers = []string{"CF-Connecting-IP", "DO-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// GetIP returns the normalized client address. When nothing parses it returns RemoteAddr as is.
func GetIP(r *http.Request) string {
	for _, name := range headers {
		value := r.Header.Get(name)
		if name == "X-Forwarded-For" {
			value, _, _ = strings.Cut(value, ",")
		}
		if ip := normalize(value); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func normalize(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil || ip.IsUnspecified() && ip.To4() != nil {
		return ""
	}
	return ip.String()
}
