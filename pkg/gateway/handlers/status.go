package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/lifecycle"
)

const serviceVersion = "3.0"

// StatusHandler serves the root service banner.
type StatusHandler struct{}

func (h StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type statusResp struct {
		Status   string   `json:"status"`
		Service  string   `json:"service"`
		Version  string   `json:"version"`
		Features []string `json:"features"`
	}

	writeJSON(w, http.StatusOK, statusResp{
		Status:  "online",
		Service: "Enhanced Company News Tracker",
		Version: serviceVersion,
		Features: []string{
			"30 news items per analysis",
			"Comprehensive source tracking",
			"Real-time graph data",
			"Sentiment analysis",
			"Reliability scoring",
			"Timeline analytics",
			"Multi-category classification",
		},
	})
}

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type ReadyHandler struct {
	Config    config.Config
	Lifecycle *lifecycle.Lifecycle
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK       bool     `json:"ok"`
		Draining bool     `json:"draining"`
		Issues   []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	if h.Config.GoogleAPIKey == "" {
		issues = append(issues, "google api key not configured")
	}
	if h.Config.DatabaseURL == "" {
		issues = append(issues, "database url not configured")
	}
	if h.Config.TextModel == "" || h.Config.TTSModel == "" || h.Config.LiveModel == "" {
		issues = append(issues, "model routing incomplete")
	}
	if h.Config.MaxBodyBytes <= 0 {
		issues = append(issues, "max_body_bytes must be > 0")
	}
	if h.Config.ReadHeaderTimeout <= 0 || h.Config.ReadTimeout <= 0 || h.Config.HandlerTimeout <= 0 {
		issues = append(issues, "timeouts must be > 0")
	}

	draining := h.Lifecycle.IsDraining()
	if draining {
		issues = append(issues, "draining")
	}

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readyResp{
		OK:       ok,
		Draining: draining,
		Issues:   issues,
	})
}
