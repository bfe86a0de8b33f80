package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		HTTPAddr:          ":0",
		GenAPIBaseURL:     "http://localhost:0",
		GenTimeoutMinutes: 1,
		EditQuiescenceMS:  1000,
		RateLimitPerMin:   1000,
	}
}

func TestRouterSmoke(t *testing.T) {
	router := NewRouter(testConfig())

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{name: "healthz", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "create_session", method: http.MethodPost, target: "/api/v1/sessions", body: `{"source":"[{\"short_text\":\"Q1\"}]"}`, wantStatus: http.StatusCreated},
		{name: "create_session_bad_json", method: http.MethodPost, target: "/api/v1/sessions", body: `{"source":"{broken"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "session_missing", method: http.MethodGet, target: "/api/v1/sessions/nope/", wantStatus: http.StatusNotFound},
		{name: "prompt_bad_technology", method: http.MethodPost, target: "/api/v1/prompt", body: `{"technology":"Cobol"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("%s %s: status %d, want %d (%s)", tc.method, tc.target, w.Code, tc.wantStatus, w.Body)
			}
		})
	}
}

func TestRouterAuthGuardOnAPI(t *testing.T) {
	cfg := testConfig()
	cfg.AuthToken = "secret"
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"source":"[]"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz must stay open, got %d", w.Code)
	}
}
