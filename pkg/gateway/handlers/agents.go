package handlers

import (
	"context"
	"net/http"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
)

// Router classifies a user turn and synthesizes verdict summaries.
// *agents.Router satisfies it.
type Router interface {
	Route(ctx context.Context, userText string) agents.RouteDecision
	Synthesize(ctx context.Context, userQuery string, check agents.CheckResult) string
}

// FactChecker runs a grounded fact check. *agents.Checker satisfies it.
type FactChecker interface {
	Check(ctx context.Context, query string) agents.CheckResult
}

// CrisisScanner sweeps a topic for viral claims. *agents.Scanner satisfies it.
type CrisisScanner interface {
	Scan(ctx context.Context, topic string) []agents.CrisisTrend
}

type MainAgentHandler struct {
	Config config.Config
	Router Router
}

func (h MainAgentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		UserText string `json:"userText"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.UserText, "userText"); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Router.Route(ctx, req.UserText))
}

type CheckAgentHandler struct {
	Config  config.Config
	Checker FactChecker
}

func (h CheckAgentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.Query, "query"); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Checker.Check(ctx, req.Query))
}

type ScanCrisisHandler struct {
	Config  config.Config
	Scanner CrisisScanner
}

func (h ScanCrisisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		Topic string `json:"topic"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.Topic, "topic"); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Scanner.Scan(ctx, req.Topic))
}

type SynthesisHandler struct {
	Config config.Config
	Router Router
}

func (h SynthesisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		UserQuery   string             `json:"userQuery"`
		CheckResult agents.CheckResult `json:"checkResult"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.UserQuery, "userQuery"); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	text := h.Router.Synthesize(ctx, req.UserQuery, req.CheckResult)
	writeJSON(w, http.StatusOK, struct {
		Text string `json:"text"`
	}{Text: text})
}
