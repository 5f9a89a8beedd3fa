// Package analysis runs the full company-news analysis pipeline: web
// presence discovery, grounded news search, per-item verification, aggregate
// statistics, and snapshot persistence.
package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
)

// NewsItem is one discovered news headline. Immutable once verified and
// embedded whole inside a snapshot.
type NewsItem struct {
	ID             int                  `json:"id"`
	Title          string               `json:"title"`
	Summary        string               `json:"summary"`
	Source         string               `json:"source"`
	SourceURL      string               `json:"source_url"`
	Date           string               `json:"date"`
	Category       string               `json:"category"`
	Sentiment      string               `json:"sentiment"`
	Snippet        string               `json:"snippet"`
	RelevanceScore float64              `json:"relevance_score"`
	Timestamp      string               `json:"timestamp"`
	Verification   *agents.Verification `json:"verification,omitempty"`
}

// WebPresence is a company's discovered web footprint.
type WebPresence struct {
	OfficialWebsite   string          `json:"official_website"`
	SocialMedia       []string        `json:"social_media"`
	InvestorRelations string          `json:"investor_relations"`
	Sources           []agents.Source `json:"sources"`
	Timestamp         string          `json:"timestamp"`
}

// Statistics aggregates one analysis run.
type Statistics struct {
	TotalNews          int            `json:"total_news"`
	RealCount          int            `json:"real_count"`
	FakeCount          int            `json:"fake_count"`
	UncertainCount     int            `json:"uncertain_count"`
	AvgConfidence      float64        `json:"avg_confidence"`
	CategoryBreakdown  map[string]int `json:"category_breakdown"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	SourceBreakdown    map[string]int `json:"source_breakdown"`
	ReliabilityScore   float64        `json:"reliability_score"`
}

// TimelineEntry is one day's verdict counts.
type TimelineEntry struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Real      int    `json:"real"`
	Fake      int    `json:"fake"`
	Uncertain int    `json:"uncertain"`
}

// NamedValue is a chart datapoint.
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color,omitempty"`
}

// GraphData holds chart-ready distributions.
type GraphData struct {
	VerdictDistribution   []NamedValue `json:"verdict_distribution"`
	CategoryDistribution  []NamedValue `json:"category_distribution"`
	SentimentDistribution []NamedValue `json:"sentiment_distribution"`
}

// Snapshot is the persisted record of one completed analysis run.
// Append-only: each run inserts a new snapshot, nothing updates or deletes.
type Snapshot struct {
	CompanyID    string          `json:"company_id"`
	CompanyName  string          `json:"company_name"`
	Timestamp    string          `json:"timestamp"`
	Websites     WebPresence     `json:"websites"`
	VerifiedNews []NewsItem      `json:"verified_news"`
	Statistics   Statistics      `json:"statistics"`
	TimelineData []TimelineEntry `json:"timeline_data"`
	GraphData    GraphData       `json:"graph_data"`
}

// DecodeSnapshot parses a stored snapshot document.
func DecodeSnapshot(doc []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
