package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
)

func testServer() *Server {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(config.Config{
		Addr:               ":8000",
		GoogleAPIKey:       "test-key",
		DatabaseURL:        "postgres://localhost/veritas",
		TextModel:          "gemini-2.5-flash",
		TTSModel:           "gemini-2.5-flash-preview-tts",
		TTSVoice:           "Kore",
		LiveModel:          "gemini-2.5-flash-native-audio-preview-09-2025",
		LiveVoice:          "Puck",
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: map[string]struct{}{},
		ReadHeaderTimeout:  10 * time.Second,
		ReadTimeout:        30 * time.Second,
		HandlerTimeout:     time.Minute,
		FetchTimeout:       time.Minute,
	}, logger, nil, nil)
}

func TestServer_UnknownRoute_ReturnsJSON404(t *testing.T) {
	s := testServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"type":"not_found_error"`) {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}

func TestServer_RootBanner_Reachable(t *testing.T) {
	s := testServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"status":"online"`) {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
	if got := rr.Header().Get("X-Request-ID"); got == "" {
		t.Fatal("expected X-Request-ID header from middleware chain")
	}
}

func TestServer_HealthAndReady_Reachable(t *testing.T) {
	s := testServer()

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("readyz status=%d body=%q", rr.Code, rr.Body.String())
	}

	s.SetDraining(true)
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("draining readyz status=%d", rr.Code)
	}
}

func TestServer_MethodRouting(t *testing.T) {
	s := testServer()

	// A GET against a POST-only route falls through to the JSON 404
	// catch-all rather than the mux's 405 path.
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/check-agent", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"type":"not_found_error"`) {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}
