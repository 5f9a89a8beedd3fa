package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Parthsawant1298/Veritas/pkg/core"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/apierror"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/lifecycle"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/live"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/live/sessions"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/mw"
)

// UpstreamConnector opens a realtime model session for one relay.
type UpstreamConnector func(ctx context.Context) (live.UpstreamSession, error)

// LiveHandler handles /ws/live-session voice relays.
type LiveHandler struct {
	Config       config.Config
	Logger       *slog.Logger
	Lifecycle    *lifecycle.Lifecycle
	LiveSessions *sessions.Tracker
	Checker      FactChecker
	Connect      UpstreamConnector
}

func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}
	if h.Lifecycle != nil && h.Lifecycle.IsDraining() {
		reqID, _ := mw.RequestIDFrom(r.Context())
		writeJSON(w, http.StatusServiceUnavailable, apierror.Envelope{Error: &core.Error{
			Type:      core.ErrAPI,
			Message:   "server is draining",
			Code:      "draining",
			RequestID: reqID,
		}})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// The relay outlives the HTTP request context once the socket is
	// hijacked; key it off a cancelable background context instead.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream, err := h.Connect(ctx)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("live connect failed", "error", err)
		}
		_ = conn.WriteJSON(live.ServerMessage{Type: live.ServerTypeError, Message: "failed to reach the voice model"})
		return
	}

	relay := &live.Relay{
		Client:   conn,
		Upstream: upstream,
		Checker:  h.Checker,
		Logger:   h.Logger,
	}

	sessionID := "live_" + randSessionID()
	unregister := h.LiveSessions.Register(sessionID, sessions.Handle{
		Cancel: func() {
			cancel()
			_ = conn.Close()
		},
		Notify: relay.Notify,
	})
	defer unregister()

	if h.Logger != nil {
		h.Logger.Info("live session started", "session_id", sessionID)
	}
	runErr := relay.Run(ctx)
	if h.Logger != nil {
		h.Logger.Info("live session ended", "session_id", sessionID, "error", runErr)
	}
}

func randSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
