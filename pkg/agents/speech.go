package agents

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const transcribePrompt = "Listen to this audio. Output ONLY the verbatim spoken text. Do not reply to the speaker. If silence, output nothing."

// Transcriber converts base64-encoded audio into text.
type Transcriber struct {
	Gen    Generator
	Model  string
	Logger *slog.Logger
}

func (t *Transcriber) log() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// Transcribe returns the verbatim spoken text, or "" when the audio cannot
// be decoded or the gateway call fails.
func (t *Transcriber) Transcribe(ctx context.Context, base64Audio, mimeType string) string {
	clean := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	if clean == "" {
		clean = "audio/webm"
	}

	data, err := base64.StdEncoding.DecodeString(base64Audio)
	if err != nil {
		t.log().Warn("transcription audio decode failed", "error", err)
		return ""
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, clean),
		genai.NewPartFromText(transcribePrompt),
	}, genai.RoleUser)}

	resp, err := t.Gen.GenerateContent(ctx, t.Model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.0),
	})
	if err != nil {
		t.log().Warn("transcription call failed", "error", err)
		return ""
	}
	return responseText(resp)
}

// Speaker synthesizes speech from text with a fixed prebuilt voice.
type Speaker struct {
	Gen    Generator
	Model  string
	Voice  string
	Logger *slog.Logger
}

func (s *Speaker) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Speak returns base64-encoded audio bytes, or "" when synthesis fails or
// the response carries no audio part.
func (s *Speaker) Speak(ctx context.Context, text string) string {
	resp, err := s.Gen.GenerateContent(ctx, s.Model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.Voice},
			},
		},
	})
	if err != nil {
		s.log().Warn("tts call failed", "error", err)
		return ""
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(part.InlineData.Data)
		}
	}
	return ""
}
