// Package live bridges a client WebSocket to the model gateway's realtime
// audio session, forwarding audio frames upstream and audio, transcripts,
// and tool activity back to the client.
package live

// ToolVerifyFact is the only tool exposed to the realtime model.
const ToolVerifyFact = "verify_fact"

// Client message types.
const (
	ClientTypeAudio        = "audio"
	ClientTypeToolResponse = "tool_response"
)

// Server message types.
const (
	ServerTypeConnected          = "connected"
	ServerTypeAudio              = "audio"
	ServerTypeTranscript         = "transcript"
	ServerTypeAgentCommunication = "agent_communication"
	ServerTypeAgentResult        = "agent_result"
	ServerTypeToolCall           = "tool_call"
	ServerTypeError              = "error"
)

// ClientMessage is a frame received from the client. Unknown types are
// silently ignored.
type ClientMessage struct {
	Type string `json:"type"`

	// Audio carries base64-encoded PCM for "audio" frames.
	Audio string `json:"audio,omitempty"`

	// CallID and Response carry a tool result for "tool_response" frames.
	CallID   string         `json:"call_id,omitempty"`
	Response map[string]any `json:"response,omitempty"`
}

// ServerMessage is a frame sent to the client.
type ServerMessage struct {
	Type string `json:"type"`

	Audio string `json:"audio,omitempty"`

	// Role and Text carry transcript fragments ("user" or "model").
	Role string `json:"role,omitempty"`
	Text string `json:"text,omitempty"`

	// Agent diagnostics for tool activity.
	Agent  string `json:"agent,omitempty"`
	Target string `json:"target,omitempty"`
	Query  string `json:"query,omitempty"`

	CallID string         `json:"call_id,omitempty"`
	Name   string         `json:"name,omitempty"`
	Result map[string]any `json:"result,omitempty"`

	Message string `json:"message,omitempty"`
}
