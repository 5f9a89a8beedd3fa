// Package dataquery answers free-text questions about a company's stored
// analysis data: it classifies the question, assembles a bounded JSON
// context from the latest snapshot, and asks the model to narrate an answer
// grounded in that context.
package dataquery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
	"github.com/Parthsawant1298/Veritas/pkg/analysis"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

const (
	// historyLimit bounds how many snapshots are pulled per query.
	historyLimit = 30
	// sampleNewsLimit bounds how many news items are quoted to the model.
	sampleNewsLimit = 10
	// maxContextBytes caps the serialized data context in the prompt.
	maxContextBytes = 4000
)

// Query-routing actions and types.
const (
	ActionQueryNewsData    = "QUERY_NEWS_DATA"
	ActionQueryCompanyInfo = "QUERY_COMPANY_INFO"
	ActionQueryStatistics  = "QUERY_STATISTICS"
	ActionGeneralResponse  = "GENERAL_RESPONSE"
)

var querySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"action": {
			Type:        genai.TypeString,
			Enum:        []string{ActionQueryNewsData, ActionQueryCompanyInfo, ActionQueryStatistics, ActionGeneralResponse},
			Description: "Determine what type of data query the user wants",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Why this action was chosen",
		},
		"query_type": {
			Type:        genai.TypeString,
			Enum:        []string{"latest_news", "fake_news", "real_news", "sources", "statistics", "timeline", "company_details", "general"},
			Description: "Specific query type",
		},
	},
	Required: []string{"action", "reasoning", "query_type"},
}

// SnapshotStore is the slice of the document store the responder needs.
type SnapshotStore interface {
	CompanyByID(ctx context.Context, id string) (*store.Company, error)
	SnapshotHistory(ctx context.Context, companyID string, limit int) ([]store.SnapshotRecord, error)
}

// Responder processes data queries against persisted snapshots.
type Responder struct {
	Store  SnapshotStore
	Gen    agents.Generator
	Model  string
	Logger *slog.Logger
}

func (r *Responder) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Result is a processed data query.
type Result struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Response    string  `json:"response"`
	DataSummary Summary `json:"data_summary"`
}

// Summary carries the headline counts next to the narrated response.
type Summary struct {
	CompanyName    string `json:"company_name"`
	QueryType      string `json:"query_type"`
	DataPoints     int    `json:"data_points"`
	RealCount      int    `json:"real_count"`
	FakeCount      int    `json:"fake_count"`
	UncertainCount int    `json:"uncertain_count"`
}

type routing struct {
	Action    string `json:"action"`
	Reasoning string `json:"reasoning"`
	QueryType string `json:"query_type"`
}

type sourceTally struct {
	Real      int `json:"real"`
	Fake      int `json:"fake"`
	Uncertain int `json:"uncertain"`
	Total     int `json:"total"`
}

// Process answers a free-text question about a company's data. The company
// lookup error propagates; everything downstream degrades in place.
func (r *Responder) Process(ctx context.Context, companyID, userQuery string) (*Result, error) {
	company, err := r.Store.CompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	route := r.classify(ctx, userQuery, company.Name)
	r.log().Info("query routed", "company_id", companyID, "action", route.Action, "query_type", route.QueryType)

	// The classified intent shapes the summary only; data fetching always
	// pulls the latest snapshot's full news list.
	records, err := r.Store.SnapshotHistory(ctx, companyID, historyLimit)
	if err != nil {
		r.log().Warn("snapshot history fetch failed", "company_id", companyID, "error", err)
		records = nil
	}

	contextDoc, counts := buildContext(company, records)
	response := r.narrate(ctx, userQuery, company.Name, contextDoc)

	return &Result{
		Success:  true,
		Message:  "Query processed successfully",
		Response: response,
		DataSummary: Summary{
			CompanyName:    company.Name,
			QueryType:      route.QueryType,
			DataPoints:     counts.Total,
			RealCount:      counts.Real,
			FakeCount:      counts.Fake,
			UncertainCount: counts.Uncertain,
		},
	}, nil
}

func (r *Responder) classify(ctx context.Context, userQuery, companyName string) routing {
	fallback := routing{Action: ActionGeneralResponse, Reasoning: "Error", QueryType: "general"}

	prompt := fmt.Sprintf("User asks about %s: '%s'. Determine what data they want to query.", companyName, userQuery)
	resp, err := r.Gen.GenerateContent(ctx, r.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			fmt.Sprintf("You are a data query router for %s's news database. Route queries to appropriate data endpoints.", companyName),
			genai.RoleUser),
		ResponseMIMEType: "application/json",
		ResponseSchema:   querySchema,
		Temperature:      genai.Ptr[float32](0.2),
	})
	if err != nil {
		r.log().Warn("query routing call failed", "error", err)
		return fallback
	}

	var route routing
	if err := json.Unmarshal([]byte(resp.Text()), &route); err != nil {
		r.log().Warn("query routing returned malformed json", "error", err)
		return fallback
	}
	if route.Action == "" || route.QueryType == "" {
		return fallback
	}
	return route
}

type verdictCounts struct {
	Total     int
	Real      int
	Fake      int
	Uncertain int
}

// buildContext assembles the bounded JSON context handed to the narrator.
// The statistics cover every news item in the latest snapshot; only a small
// sample of the items themselves is included.
func buildContext(company *store.Company, records []store.SnapshotRecord) (string, verdictCounts) {
	doc := map[string]any{
		"company": map[string]any{
			"name":     company.Name,
			"email":    company.Email,
			"industry": company.Industry,
			"size":     company.Size,
		},
	}

	var counts verdictCounts
	if len(records) == 0 {
		doc["news_data"] = map[string]any{
			"total_news": 0,
			"message":    "No news data has been analyzed yet. Please run a news analysis first from the dashboard.",
		}
	} else {
		var snap analysis.Snapshot
		if err := json.Unmarshal(records[0].Doc, &snap); err == nil {
			counts = tallyVerdicts(snap.VerifiedNews)
			sample := snap.VerifiedNews
			if len(sample) > sampleNewsLimit {
				sample = sample[:sampleNewsLimit]
			}
			doc["news_data"] = map[string]any{
				"total_news":        counts.Total,
				"timestamp":         records[0].TakenAt.UTC().Format(time.RFC3339),
				"all_fetches_count": len(records),
				"statistics": map[string]any{
					"total_verified":  counts.Total,
					"real_count":      counts.Real,
					"fake_count":      counts.Fake,
					"uncertain_count": counts.Uncertain,
				},
				"sources_breakdown": tallySources(snap.VerifiedNews),
				"sample_news_items": sample,
				"note":              fmt.Sprintf("Statistics are based on ALL %d news items. Sample shows first %d items only.", counts.Total, len(sample)),
			}
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "{}", counts
	}
	if len(raw) > maxContextBytes {
		raw = raw[:maxContextBytes]
	}
	return string(raw), counts
}

func tallyVerdicts(items []analysis.NewsItem) verdictCounts {
	var c verdictCounts
	for _, item := range items {
		c.Total++
		if item.Verification == nil {
			c.Uncertain++
			continue
		}
		switch item.Verification.Verdict {
		case agents.VerdictReal:
			c.Real++
		case agents.VerdictFake:
			c.Fake++
		default:
			c.Uncertain++
		}
	}
	return c
}

func tallySources(items []analysis.NewsItem) map[string]sourceTally {
	out := map[string]sourceTally{}
	for _, item := range items {
		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		tally := out[source]
		tally.Total++
		verdict := agents.VerdictUncertain
		if item.Verification != nil {
			verdict = item.Verification.Verdict
		}
		switch verdict {
		case agents.VerdictReal:
			tally.Real++
		case agents.VerdictFake:
			tally.Fake++
		default:
			tally.Uncertain++
		}
		out[source] = tally
	}
	return out
}

func (r *Responder) narrate(ctx context.Context, userQuery, companyName, contextDoc string) string {
	prompt := fmt.Sprintf(`You are a data analyst assistant for %s.

USER QUESTION: %s

AVAILABLE DATA AND STATISTICS:
%s

IMPORTANT: The statistics (real_count, fake_count, etc.) represent ALL news items in the database, NOT just the sample shown.

Provide a clear, conversational answer based on the statistics. Include:
- Direct answer with ACTUAL numbers from statistics
- Key insights from the data
- Reference the total count of items analyzed
- Use bullet points for clarity
- Be conversational but professional

Format your response in markdown.`, companyName, userQuery, contextDoc)

	resp, err := r.Gen.GenerateContent(ctx, r.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		r.log().Warn("data narration call failed", "error", err)
		return "I encountered an error analyzing the data."
	}
	if text := resp.Text(); text != "" {
		return text
	}
	return "I couldn't analyze the data."
}
