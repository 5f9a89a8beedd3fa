package handlers

import (
	"context"
	"net/http"

	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
)

// Transcriber turns a base64 audio clip into text. *agents.Transcriber
// satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, base64Audio, mimeType string) string
}

// Speaker renders text to base64 audio. *agents.Speaker satisfies it.
type Speaker interface {
	Speak(ctx context.Context, text string) string
}

type TranscribeHandler struct {
	Config      config.Config
	Transcriber Transcriber
}

func (h TranscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		Base64Audio string `json:"base64Audio"`
		MimeType    string `json:"mimeType"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.Base64Audio, "base64Audio"); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	text := h.Transcriber.Transcribe(ctx, req.Base64Audio, req.MimeType)
	writeJSON(w, http.StatusOK, struct {
		Text string `json:"text"`
	}{Text: text})
}

type TTSHandler struct {
	Config  config.Config
	Speaker Speaker
}

func (h TTSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.Text, "text"); err != nil {
		writeError(w, r, err)
		return
	}

	// A failed synthesis serializes as {"audio": null}.
	type ttsResp struct {
		Audio *string `json:"audio"`
	}
	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	audio := h.Speaker.Speak(ctx, req.Text)
	if audio == "" {
		writeJSON(w, http.StatusOK, ttsResp{})
		return
	}
	writeJSON(w, http.StatusOK, ttsResp{Audio: &audio})
}
