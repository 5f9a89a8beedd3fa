package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sync"

	"google.golang.org/genai"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
)

// ClientConn is the client-side socket. *websocket.Conn satisfies it.
type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// UpstreamSession is the realtime model session the relay forwards into.
type UpstreamSession interface {
	SendAudio(data []byte, mimeType string) error
	SendToolResponse(callID, name string, response map[string]any) error
	Receive() (*genai.LiveServerMessage, error)
	Close() error
}

// FactChecker runs the verify_fact tool. *agents.Checker satisfies it.
type FactChecker interface {
	Check(ctx context.Context, query string) agents.CheckResult
}

// Relay runs the two forwarding loops for one live session. Either loop
// exiting tears the whole session down; there is no reconnect.
type Relay struct {
	Client   ClientConn
	Upstream UpstreamSession
	Checker  FactChecker
	Logger   *slog.Logger

	// clientMu serializes client writes; both loops write to the client.
	clientMu sync.Mutex
	// upstreamMu serializes upstream sends; tool responses may originate
	// from either loop.
	upstreamMu sync.Mutex
}

func (r *Relay) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run drives the session until either side disconnects or errs. Both
// sockets are closed on the way out. The returned error is the first loop
// failure; a clean client disconnect surfaces as that read error.
func (r *Relay) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.sendToClient(ServerMessage{Type: ServerTypeConnected}); err != nil {
		r.Upstream.Close()
		return err
	}

	errCh := make(chan error, 2)
	go func() { errCh <- r.clientToUpstream(ctx) }()
	go func() { errCh <- r.upstreamToClient(ctx) }()

	err := <-errCh
	cancel()
	// Closing both sockets unblocks whichever loop is still reading.
	_ = r.Upstream.Close()
	_ = r.Client.Close()
	<-errCh
	return err
}

// clientToUpstream forwards audio chunks and tool responses from the client.
// Unrecognized message types are dropped.
func (r *Relay) clientToUpstream(ctx context.Context) error {
	for {
		_, frame, err := r.Client.ReadMessage()
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var msg ClientMessage
		if err := json.Unmarshal(frame, &msg); err != nil {
			r.log().Warn("dropping undecodable client frame", "error", err)
			continue
		}

		switch msg.Type {
		case ClientTypeAudio:
			data, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				r.log().Warn("dropping undecodable audio frame", "error", err)
				continue
			}
			if err := r.sendUpstreamAudio(data); err != nil {
				return err
			}
		case ClientTypeToolResponse:
			if err := r.sendUpstreamToolResponse(msg.CallID, ToolVerifyFact, msg.Response); err != nil {
				return err
			}
		}
	}
}

// upstreamToClient forwards model output and handles verify_fact tool calls
// inline.
func (r *Relay) upstreamToClient(ctx context.Context) error {
	for {
		msg, err := r.Upstream.Receive()
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg == nil || msg.SetupComplete != nil {
			continue
		}

		if sc := msg.ServerContent; sc != nil {
			if sc.ModelTurn != nil {
				for _, part := range sc.ModelTurn.Parts {
					if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
						continue
					}
					if err := r.sendToClient(ServerMessage{
						Type:  ServerTypeAudio,
						Audio: base64.StdEncoding.EncodeToString(part.InlineData.Data),
					}); err != nil {
						return err
					}
				}
			}
			if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
				if err := r.sendToClient(ServerMessage{Type: ServerTypeTranscript, Role: "user", Text: sc.InputTranscription.Text}); err != nil {
					return err
				}
			}
			if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
				if err := r.sendToClient(ServerMessage{Type: ServerTypeTranscript, Role: "model", Text: sc.OutputTranscription.Text}); err != nil {
					return err
				}
			}
		}

		if msg.ToolCall != nil {
			for _, call := range msg.ToolCall.FunctionCalls {
				if call == nil || call.Name != ToolVerifyFact {
					continue
				}
				if err := r.handleVerifyFact(ctx, call); err != nil {
					return err
				}
			}
		}
	}
}

// handleVerifyFact runs the check agent synchronously, reports both the
// intermediate step and the result to the client, and completes the tool
// call upstream so the model can continue its turn.
func (r *Relay) handleVerifyFact(ctx context.Context, call *genai.FunctionCall) error {
	query, _ := call.Args["query"].(string)

	if err := r.sendToClient(ServerMessage{
		Type:   ServerTypeAgentCommunication,
		Agent:  "voice_agent",
		Target: "check_agent",
		Query:  query,
	}); err != nil {
		return err
	}

	check := r.Checker.Check(ctx, query)
	result := map[string]any{
		"verdict":     string(check.Verdict),
		"confidence":  check.Confidence,
		"explanation": check.Explanation,
		"sources":     check.Sources,
	}

	if err := r.sendToClient(ServerMessage{
		Type:   ServerTypeToolCall,
		CallID: call.ID,
		Name:   call.Name,
		Result: result,
	}); err != nil {
		return err
	}
	if err := r.sendToClient(ServerMessage{
		Type:   ServerTypeAgentResult,
		Agent:  "check_agent",
		Result: result,
	}); err != nil {
		return err
	}

	return r.sendUpstreamToolResponse(call.ID, call.Name, result)
}

// Notify tells the client the session is going away. Safe to call while
// the forwarding loops are running.
func (r *Relay) Notify(message string) error {
	return r.sendToClient(ServerMessage{Type: ServerTypeError, Message: message})
}

func (r *Relay) sendToClient(msg ServerMessage) error {
	r.clientMu.Lock()
	defer r.clientMu.Unlock()
	return r.Client.WriteJSON(msg)
}

func (r *Relay) sendUpstreamAudio(data []byte) error {
	r.upstreamMu.Lock()
	defer r.upstreamMu.Unlock()
	return r.Upstream.SendAudio(data, "audio/pcm")
}

func (r *Relay) sendUpstreamToolResponse(callID, name string, response map[string]any) error {
	r.upstreamMu.Lock()
	defer r.upstreamMu.Unlock()
	return r.Upstream.SendToolResponse(callID, name, response)
}
