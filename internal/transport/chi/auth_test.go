package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"query param", "/tagging?api_key=secret", "", "secret"},
		{"query wins over header", "/tagging?api_key=q", "Bearer h", "q"},
		{"bearer fallback", "/tagging", "Bearer h", "h"},
		{"non-bearer scheme", "/tagging", "Basic abc", ""},
		{"empty param", "/tagging?api_key=", "", ""},
		{"nothing", "/tagging", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.target, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := apiKeyFromRequest(req); got != tc.want {
				t.Errorf("apiKeyFromRequest = %q, want %q", got, tc.want)
			}
		})
	}
}
