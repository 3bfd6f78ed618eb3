package netx

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"cloudflare header wins", "192.0.2.1:1234", map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "1.2.3.4"},
		{"first forwarded hop", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": " 5.6.7.8 , 10.0.0.1"}, "5.6.7.8"},
		{"empty forwarded falls to peer", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": " , 10.0.0.1"}, "192.0.2.1"},
		{"peer address", "[2001:db8::1]:443", nil, "2001:db8::1"},
		{"nothing", "", nil, AnonymousAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/usage", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
