package ratelimit_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graph-gophers/graphql-guard/ratelimit"
	"github.com/graph-gophers/graphql-guard/ratelimit/noop"
)

func TestDefaultKeyFunc(t *testing.T) {
	tests := []struct {
		name      string
		keyHeader string
		trustXFF  bool
		headers   map[string]string
		remote    string
		want      string
	}{
		{name: "remote addr", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "remote addr without port", remote: "10.0.0.1", want: "10.0.0.1"},
		{name: "empty remote addr", remote: "", want: "unknown"},
		{
			name:      "key header",
			keyHeader: "X-Api-Key",
			headers:   map[string]string{"X-Api-Key": " abc "},
			remote:    "10.0.0.1:5555",
			want:      "abc",
		},
		{
			name:      "missing key header falls back",
			keyHeader: "X-Api-Key",
			remote:    "10.0.0.1:5555",
			want:      "10.0.0.1",
		},
		{
			name:     "forwarded for trusted",
			trustXFF: true,
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			remote:   "10.0.0.1:5555",
			want:     "203.0.113.7",
		},
		{
			name:    "forwarded for ignored",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remote:  "10.0.0.1:5555",
			want:    "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/graphql", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ratelimit.DefaultKeyFunc(tt.keyHeader, tt.trustXFF)(r))
		})
	}
}

func TestNoop(t *testing.T) {
	var rl ratelimit.RateLimiter = &noop.RateLimiter{}
	assert.False(t, rl.LimitQuery(context.Background(), "anyone"))
}
