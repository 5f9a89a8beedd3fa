// Package server wires the agent stack, document store, and HTTP surface
// together.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
	"github.com/Parthsawant1298/Veritas/pkg/analysis"
	"github.com/Parthsawant1298/Veritas/pkg/dataquery"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/handlers"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/lifecycle"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/live"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/live/sessions"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/mw"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	lifecycle    *lifecycle.Lifecycle
	liveSessions *sessions.Tracker

	checker     *agents.Checker
	router      *agents.Router
	scanner     *agents.Scanner
	transcriber *agents.Transcriber
	speaker     *agents.Speaker
	analyzer    *analysis.Analyzer
	responder   *dataquery.Responder
	store       *store.Store
	client      *genai.Client
}

func New(cfg config.Config, logger *slog.Logger, client *genai.Client, st *store.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gen := agents.GenAIGenerator{Client: client}
	checker := &agents.Checker{Gen: gen, Model: cfg.TextModel, Logger: logger}

	s := &Server{
		cfg:          cfg,
		logger:       logger,
		mux:          http.NewServeMux(),
		lifecycle:    &lifecycle.Lifecycle{},
		liveSessions: sessions.NewTracker(),
		checker:      checker,
		router:       &agents.Router{Gen: gen, Model: cfg.TextModel, Logger: logger},
		scanner:      &agents.Scanner{Checker: checker, Gen: gen, Model: cfg.TextModel, Logger: logger},
		transcriber:  &agents.Transcriber{Gen: gen, Model: cfg.TextModel, Logger: logger},
		speaker:      &agents.Speaker{Gen: gen, Model: cfg.TTSModel, Voice: cfg.TTSVoice, Logger: logger},
		analyzer: &analysis.Analyzer{
			Store:    st,
			Verifier: checker,
			Gen:      gen,
			Model:    cfg.TextModel,
			Logger:   logger,
		},
		responder: &dataquery.Responder{Store: st, Gen: gen, Model: cfg.TextModel, Logger: logger},
		store:     st,
		client:    client,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/", handlers.NotFoundHandler{})
	s.mux.Handle("GET /{$}", handlers.StatusHandler{})
	s.mux.Handle("GET /healthz", handlers.HealthHandler{})
	s.mux.Handle("GET /readyz", handlers.ReadyHandler{Config: s.cfg, Lifecycle: s.lifecycle})

	s.mux.Handle("POST /api/transcribe", handlers.TranscribeHandler{Config: s.cfg, Transcriber: s.transcriber})
	s.mux.Handle("POST /api/tts", handlers.TTSHandler{Config: s.cfg, Speaker: s.speaker})
	s.mux.Handle("POST /api/main-agent", handlers.MainAgentHandler{Config: s.cfg, Router: s.router})
	s.mux.Handle("POST /api/check-agent", handlers.CheckAgentHandler{Config: s.cfg, Checker: s.checker})
	s.mux.Handle("POST /api/scan-crisis", handlers.ScanCrisisHandler{Config: s.cfg, Scanner: s.scanner})
	s.mux.Handle("POST /api/synthesis", handlers.SynthesisHandler{Config: s.cfg, Router: s.router})

	s.mux.Handle("POST /api/company/fetch-news", handlers.FetchNewsHandler{Config: s.cfg, Analyzer: s.analyzer, Logger: s.logger})
	s.mux.Handle("GET /api/company/dashboard/{company_id}", handlers.DashboardHandler{Store: s.store, Logger: s.logger})
	s.mux.Handle("GET /api/company/list", handlers.ListCompaniesHandler{Store: s.store, Logger: s.logger})
	s.mux.Handle("GET /api/company/{company_id}/summary", handlers.CompanySummaryHandler{Responder: s.responder})
	s.mux.Handle("POST /api/data-query", handlers.DataQueryHandler{Config: s.cfg, Responder: s.responder})

	s.mux.Handle("GET /ws/live-session", handlers.LiveHandler{
		Config:       s.cfg,
		Logger:       s.logger,
		Lifecycle:    s.lifecycle,
		LiveSessions: s.liveSessions,
		Checker:      s.checker,
		Connect: func(ctx context.Context) (live.UpstreamSession, error) {
			session, err := live.Connect(ctx, s.client, s.cfg.LiveModel, s.cfg.LiveVoice)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
	})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

func (s *Server) SetDraining(draining bool) {
	s.lifecycle.SetDraining(draining)
}

func (s *Server) NotifyLiveSessions(message string) int {
	return s.liveSessions.NotifyAll(message)
}

func (s *Server) WaitLiveSessions(ctx context.Context) bool {
	return s.liveSessions.Wait(ctx)
}

func (s *Server) CancelLiveSessions() int {
	return s.liveSessions.CancelAll()
}
