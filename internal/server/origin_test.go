package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		method  string
		host    string
		headers map[string]string
		status  int
	}{
		{"Page Served On Configured Host", "127.0.0.1:3000", http.MethodGet, "127.0.0.1:3000", nil, http.StatusOK},
		{"Loopback Aliases Accepted", "127.0.0.1:3000", http.MethodGet, "localhost:3000", nil, http.StatusOK},
		{"IPv6 Loopback Accepted", "localhost:3000", http.MethodGet, "[::1]:3000", nil, http.StatusOK},
		{"Wildcard Addr Accepts Loopback", ":3000", http.MethodGet, "LOCALHOST:3000", nil, http.StatusOK},
		{"Rebound Host Refused", "127.0.0.1:3000", http.MethodGet, "evil.example:3000", nil, http.StatusMisdirectedRequest},
		{"Other Port Refused", "127.0.0.1:3000", http.MethodGet, "127.0.0.1:4000", nil, http.StatusMisdirectedRequest},
		{"Named Host Only", "console.internal:8080", http.MethodGet, "localhost:8080", nil, http.StatusMisdirectedRequest},
		{"Same Origin Post", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000",
			map[string]string{"Origin": "http://127.0.0.1:3000", "Sec-Fetch-Site": "same-origin"}, http.StatusOK},
		{"Post Without Browser Headers", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000", nil, http.StatusOK},
		{"Typed Navigation Post", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000",
			map[string]string{"Sec-Fetch-Site": "none"}, http.StatusOK},
		{"Cross Site Post Refused", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000",
			map[string]string{"Origin": "https://evil.example", "Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"Foreign Origin Refused", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000",
			map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden},
		{"Sibling Port Origin Refused", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000",
			map[string]string{"Origin": "http://127.0.0.1:8080", "Sec-Fetch-Site": "same-site"}, http.StatusForbidden},
		{"Opaque Origin Refused", "127.0.0.1:3000", http.MethodPost, "127.0.0.1:3000",
			map[string]string{"Origin": "null"}, http.StatusForbidden},
		{"Cross Site Get Allowed", "127.0.0.1:3000", http.MethodGet, "127.0.0.1:3000",
			map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			})

			req := httptest.NewRequest(tt.method, "/list-albums/a1/subscription", nil)
			req.Host = tt.host
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			SameOrigin(tt.addr)(next).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if reached != (tt.status == http.StatusOK) {
				t.Errorf("expected handler reached=%v, got %v", tt.status == http.StatusOK, reached)
			}
		})
	}
}
