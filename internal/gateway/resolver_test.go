package gateway

import (
	"net/http/httptest"
	"testing"

	"virapi/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		header   string
		param    string
		expected string
	}{
		{"header rule reads app-token header", model.VerifyRuleHeader, "h-token", "p-token", "h-token"},
		{"header rule ignores param", model.VerifyRuleHeader, "", "p-token", ""},
		{"param rule reads _token param", model.VerifyRuleParam, "h-token", "p-token", "p-token"},
		{"param rule ignores header", model.VerifyRuleParam, "h-token", "", ""},
		{"compatible prefers header", model.VerifyRuleCompatible, "h-token", "p-token", "h-token"},
		{"compatible falls back to param", model.VerifyRuleCompatible, "", "p-token", "p-token"},
		{"unknown rule behaves as compatible", "", "h-token", "", "h-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/u/app/thing", nil)
			if tt.header != "" {
				req.Header.Set("app-token", tt.header)
			}
			if tt.param != "" {
				q := req.URL.Query()
				q.Set("_token", tt.param)
				req.URL.RawQuery = q.Encode()
			}
			assert.Equal(t, tt.expected, ExtractToken(req, tt.rule))
		})
	}
}

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		expected   string
	}{
		{"no forwarded header uses remote addr", "", "203.0.113.9:51234", "203.0.113.9"},
		{"first forwarded entry wins", "198.51.100.7, 10.0.0.1", "127.0.0.1:80", "198.51.100.7"},
		{"loopback first entry skipped", "127.0.0.1, 203.0.113.5", "127.0.0.1:80", "203.0.113.5"},
		{"single loopback entry falls back to remote", "127.0.0.1", "192.0.2.4:9999", "192.0.2.4"},
		{"entries trimmed", " 198.51.100.7 , 10.0.0.1", "127.0.0.1:80", "198.51.100.7"},
		{"ipv6 loopback skipped", "::1, 2001:db8::2", "127.0.0.1:80", "2001:db8::2"},
		{"unparsable remote addr returned as-is", "", "not-an-addr", "not-an-addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveClientIP(tt.forwarded, tt.remoteAddr))
		})
	}
}
