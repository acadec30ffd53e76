package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed string
	}{
		{name: "allowed origin", allowed: []string{"https://app.example.com/"}, method: http.MethodGet, origin: "https://app.example.com", wantStatus: http.StatusOK, wantAllowed: "https://app.example.com"},
		{name: "other origin", allowed: []string{"https://app.example.com"}, method: http.MethodGet, origin: "https://evil.example.com", wantStatus: http.StatusOK},
		{name: "preflight allowed", allowed: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://app.example.com", preflight: true, wantStatus: http.StatusNoContent, wantAllowed: "https://app.example.com"},
		{name: "preflight rejected", allowed: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://evil.example.com", preflight: true, wantStatus: http.StatusNoContent},
		{name: "wildcard", allowed: []string{"*"}, method: http.MethodGet, origin: "https://any.example.com", wantStatus: http.StatusOK, wantAllowed: "https://any.example.com"},
		{name: "disabled", allowed: nil, method: http.MethodGet, origin: "https://app.example.com", wantStatus: http.StatusOK},
		{name: "plain OPTIONS reaches handler", allowed: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://app.example.com", wantStatus: http.StatusOK, wantAllowed: "https://app.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/events", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllowed, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
