package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Routing actions for the main agent.
const (
	ActionDirectReply       = "DIRECT_REPLY"
	ActionDelegateToChecker = "DELEGATE_TO_CHECKER"
	ActionScanCrisis        = "SCAN_CRISIS"
)

// RouteDecision is the structured routing verdict for a user utterance.
type RouteDecision struct {
	Action       string `json:"action"`
	Reasoning    string `json:"reasoning"`
	ReplyText    string `json:"reply_text,omitempty"`
	CheckerQuery string `json:"checker_query,omitempty"`
	ScanTopic    string `json:"scan_topic,omitempty"`
}

var routeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"action": {
			Type:        genai.TypeString,
			Enum:        []string{ActionDirectReply, ActionDelegateToChecker, ActionScanCrisis},
			Description: "Use DELEGATE for specific checks. Use SCAN_CRISIS if user asks to 'scan', 'monitor', 'find trends', or 'check news' about a broad topic.",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Internal thought process.",
		},
		"reply_text": {
			Type:        genai.TypeString,
			Description: "Response if DIRECT_REPLY.",
		},
		"checker_query": {
			Type:        genai.TypeString,
			Description: "Optimized search query for the Check Agent.",
		},
		"scan_topic": {
			Type:        genai.TypeString,
			Description: "The broad topic to scan for emerging misinformation.",
		},
	},
	Required: []string{"action", "reasoning"},
}

// Router classifies user utterances into routing actions and synthesizes
// spoken replies from check results.
type Router struct {
	Gen    Generator
	Model  string
	Logger *slog.Logger
}

func (r *Router) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Route classifies a user utterance with a schema-constrained call. Any
// failure falls back to a direct "System error." reply.
func (r *Router) Route(ctx context.Context, userText string) RouteDecision {
	fallback := RouteDecision{
		Action:    ActionDirectReply,
		Reasoning: "Error",
		ReplyText: "System error.",
	}

	resp, err := r.Gen.GenerateContent(ctx, r.Model, genai.Text(userText), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are the Main Agent. Route queries. If factual/news/weather, DELEGATE_TO_CHECKER. If user asks to scan, monitor, or find latest rumors, use SCAN_CRISIS.",
			genai.RoleUser),
		ResponseMIMEType: "application/json",
		ResponseSchema:   routeSchema,
		Temperature:      genai.Ptr[float32](0.3),
	})
	if err != nil {
		r.log().Warn("main agent call failed", "error", err)
		return fallback
	}

	text := responseText(resp)
	if text == "" {
		r.log().Warn("main agent returned empty response")
		return fallback
	}

	var decision RouteDecision
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		r.log().Warn("main agent returned malformed json", "error", err)
		return fallback
	}
	if err := validateAction(decision.Action); err != nil {
		r.log().Warn("main agent returned unknown action", "action", decision.Action)
		return fallback
	}
	return decision
}

// Synthesize turns a check result into a conversational reply.
func (r *Router) Synthesize(ctx context.Context, userQuery string, check CheckResult) string {
	prompt := fmt.Sprintf("Synthesize response for %q based on: Verdict %s, Explanation: %s",
		userQuery, check.Verdict, check.Explanation)

	resp, err := r.Gen.GenerateContent(ctx, r.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.6),
	})
	if err != nil {
		r.log().Warn("synthesis call failed", "error", err)
		return "Error synthesizing."
	}
	if text := responseText(resp); text != "" {
		return text
	}
	return "Verified."
}

func validateAction(action string) error {
	switch action {
	case ActionDirectReply, ActionDelegateToChecker, ActionScanCrisis:
		return nil
	}
	return errors.New("unknown action")
}
