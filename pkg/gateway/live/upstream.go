package live

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const voiceSystemInstruction = "You are the Voice Main Agent. You listen to the user. You have access to a tool called 'verify_fact'. If the user asks ANY question about facts, news, weather, or reality, you MUST use 'verify_fact' to check it. Do not answer from your own knowledge. Always cite the source provided by the tool. Be concise."

var liveTools = []*genai.Tool{{
	FunctionDeclarations: []*genai.FunctionDeclaration{{
		Name:        ToolVerifyFact,
		Description: "Verify a claim, news, or fact using the Check Agent. Use this for ANY objective question regarding reality, news, weather, or data.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query": {
					Type:        genai.TypeString,
					Description: "The specific claim or fact to check.",
				},
			},
			Required: []string{"query"},
		},
	}},
}}

// GenAISession adapts a *genai.Session to UpstreamSession.
type GenAISession struct {
	Session *genai.Session
}

func (s GenAISession) SendAudio(data []byte, mimeType string) error {
	return s.Session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{MIMEType: mimeType, Data: data},
	})
}

func (s GenAISession) SendToolResponse(callID, name string, response map[string]any) error {
	return s.Session.SendToolResponse(genai.LiveToolResponseInput{
		FunctionResponses: []*genai.FunctionResponse{{
			ID:       callID,
			Name:     name,
			Response: response,
		}},
	})
}

func (s GenAISession) Receive() (*genai.LiveServerMessage, error) {
	return s.Session.Receive()
}

func (s GenAISession) Close() error {
	return s.Session.Close()
}

// Connect opens a realtime session configured for the voice agent: audio
// responses with the given prebuilt voice, transcription both ways, and the
// verify_fact tool.
func Connect(ctx context.Context, client *genai.Client, model, voice string) (GenAISession, error) {
	session, err := client.Live.Connect(ctx, model, &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
		SystemInstruction:        genai.NewContentFromText(voiceSystemInstruction, genai.RoleUser),
		Tools:                    liveTools,
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	})
	if err != nil {
		return GenAISession{}, fmt.Errorf("connect live session: %w", err)
	}
	return GenAISession{Session: session}, nil
}
