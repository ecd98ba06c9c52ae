// Package ratelimit throttles clients before their queries reach the limiter.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// RateLimiter reports whether the client identified by key has to be refused.
type RateLimiter interface {
	LimitQuery(ctx context.Context, key string) bool
}

// KeyFunc identifies the client of a request.
type KeyFunc func(r *http.Request) string

// DefaultKeyFunc uses keyHeader when set and present, then the first X-Forwarded-For entry
// if trustXFF is set, then the host of RemoteAddr.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}
