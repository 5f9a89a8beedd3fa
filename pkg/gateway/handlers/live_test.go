package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/genai"

	"github.com/Parthsawant1298/Veritas/pkg/gateway/lifecycle"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/live"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/live/sessions"
)

type scriptedUpstream struct {
	msgs   chan *genai.LiveServerMessage
	closed chan struct{}
}

func newScriptedUpstream(msgs ...*genai.LiveServerMessage) *scriptedUpstream {
	u := &scriptedUpstream{
		msgs:   make(chan *genai.LiveServerMessage, len(msgs)),
		closed: make(chan struct{}),
	}
	for _, m := range msgs {
		u.msgs <- m
	}
	return u
}

func (u *scriptedUpstream) SendAudio([]byte, string) error { return nil }

func (u *scriptedUpstream) SendToolResponse(string, string, map[string]any) error { return nil }

func (u *scriptedUpstream) Receive() (*genai.LiveServerMessage, error) {
	select {
	case m := <-u.msgs:
		return m, nil
	case <-u.closed:
		return nil, io.EOF
	}
}

func (u *scriptedUpstream) Close() error {
	select {
	case <-u.closed:
	default:
		close(u.closed)
	}
	return nil
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) live.ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg live.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestLiveHandlerDraining(t *testing.T) {
	lc := &lifecycle.Lifecycle{}
	lc.SetDraining(true)
	h := LiveHandler{
		Config:       testConfig(),
		Lifecycle:    lc,
		LiveSessions: sessions.NewTracker(),
	}

	req := httptest.NewRequest(http.MethodGet, "/ws/live-session", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestLiveHandlerConnectFailure(t *testing.T) {
	h := LiveHandler{
		Config:       testConfig(),
		LiveSessions: sessions.NewTracker(),
		Checker:      &fakeChecker{},
		Connect: func(context.Context) (live.UpstreamSession, error) {
			return nil, errors.New("model offline")
		},
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	msg := readServerMessage(t, conn)
	if msg.Type != live.ServerTypeError {
		t.Fatalf("first frame = %+v, want error", msg)
	}
}

func TestLiveHandlerRelaysSession(t *testing.T) {
	upstream := newScriptedUpstream(
		&genai.LiveServerMessage{ServerContent: &genai.LiveServerContent{
			OutputTranscription: &genai.Transcription{Text: "hello there"},
		}},
	)
	tracker := sessions.NewTracker()
	h := LiveHandler{
		Config:       testConfig(),
		LiveSessions: tracker,
		Checker:      &fakeChecker{},
		Connect: func(context.Context) (live.UpstreamSession, error) {
			return upstream, nil
		},
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	if msg := readServerMessage(t, conn); msg.Type != live.ServerTypeConnected {
		t.Fatalf("first frame = %+v, want connected", msg)
	}
	msg := readServerMessage(t, conn)
	if msg.Type != live.ServerTypeTranscript || msg.Role != "model" || msg.Text != "hello there" {
		t.Fatalf("second frame = %+v", msg)
	}

	// Closing the client side must drain the session from the tracker.
	_ = conn.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ok := tracker.Wait(ctx); !ok {
		t.Fatal("session did not unregister")
	}
}
