package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

const verifyBatchSize = 10

// CompanyStore is the slice of the document store the analyzer needs.
type CompanyStore interface {
	CompanyByID(ctx context.Context, id string) (*store.Company, error)
	InsertSnapshot(ctx context.Context, companyID string, takenAt time.Time, doc []byte) (string, error)
}

// NewsVerifier verifies one news item. *agents.Checker satisfies it.
type NewsVerifier interface {
	VerifyNews(ctx context.Context, headline, source, companyName string) agents.Verification
}

// Analyzer orchestrates one analysis run end to end.
type Analyzer struct {
	Store    CompanyStore
	Verifier NewsVerifier
	Gen      agents.Generator
	Model    string
	Logger   *slog.Logger

	// Now is the clock for timestamps and timeline bucketing. Nil means time.Now.
	Now func() time.Time
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Analyzer) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// FetchResult is the payload returned to the fetch-news caller. It mirrors
// the snapshot contents plus a success marker.
type FetchResult struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Stats        Statistics      `json:"stats"`
	VerifiedNews []NewsItem      `json:"verified_news"`
	Websites     WebPresence     `json:"websites"`
	TimelineData []TimelineEntry `json:"timeline_data"`
	GraphData    GraphData       `json:"graph_data"`
}

// Run resolves the company, discovers and verifies its news, aggregates
// statistics, persists one snapshot, and returns the full result. Lookup and
// persistence errors propagate; every agent failure inside the run degrades
// to defaulted data instead.
func (a *Analyzer) Run(ctx context.Context, companyID string) (*FetchResult, error) {
	company, err := a.Store.CompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	a.log().Info("starting analysis", "company_id", companyID, "company", company.Name)

	presence := a.findWebPresence(ctx, company.Name)
	items := a.discoverNews(ctx, company.Name)

	// Sequential verification in fixed-size batches. A failed verification
	// is absorbed by the verifier itself and never aborts the batch.
	for start := 0; start < len(items); start += verifyBatchSize {
		end := min(start+verifyBatchSize, len(items))
		a.log().Info("verifying news batch",
			"batch", start/verifyBatchSize+1,
			"batches", (len(items)+verifyBatchSize-1)/verifyBatchSize)
		for i := start; i < end; i++ {
			v := a.Verifier.VerifyNews(ctx, items[i].Title, items[i].Source, company.Name)
			items[i].Verification = &v
		}
	}

	now := a.now()
	stats := computeStatistics(items)
	timeline := buildTimeline(items, now)
	graph := buildGraphData(stats)

	snap := Snapshot{
		CompanyID:    companyID,
		CompanyName:  company.Name,
		Timestamp:    now.UTC().Format(time.RFC3339),
		Websites:     presence,
		VerifiedNews: items,
		Statistics:   stats,
		TimelineData: timeline,
		GraphData:    graph,
	}
	doc, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := a.Store.InsertSnapshot(ctx, companyID, now, doc); err != nil {
		return nil, err
	}

	a.log().Info("analysis complete",
		"company_id", companyID,
		"real", stats.RealCount,
		"fake", stats.FakeCount,
		"uncertain", stats.UncertainCount,
		"reliability_score", stats.ReliabilityScore)

	return &FetchResult{
		Success:      true,
		Message:      "Comprehensive analysis completed successfully",
		Stats:        stats,
		VerifiedNews: items,
		Websites:     presence,
		TimelineData: timeline,
		GraphData:    graph,
	}, nil
}

func computeStatistics(items []NewsItem) Statistics {
	s := Statistics{
		CategoryBreakdown:  map[string]int{},
		SentimentBreakdown: map[string]int{"positive": 0, "negative": 0, "neutral": 0},
		SourceBreakdown:    map[string]int{},
	}

	var confSum float64
	sourceCounts := map[string]int{}
	var sourceOrder []string

	for _, item := range items {
		s.TotalNews++
		if v := item.Verification; v != nil {
			switch v.Verdict {
			case agents.VerdictReal:
				s.RealCount++
			case agents.VerdictFake:
				s.FakeCount++
			default:
				s.UncertainCount++
			}
			confSum += v.Confidence
		} else {
			s.UncertainCount++
		}

		s.CategoryBreakdown[item.Category]++
		if _, ok := s.SentimentBreakdown[item.Sentiment]; ok {
			s.SentimentBreakdown[item.Sentiment]++
		}
		if _, seen := sourceCounts[item.Source]; !seen {
			sourceOrder = append(sourceOrder, item.Source)
		}
		sourceCounts[item.Source]++
	}

	if s.TotalNews > 0 {
		avg := confSum / float64(s.TotalNews)
		s.AvgConfidence = round3(avg)
		s.ReliabilityScore = round1(float64(s.RealCount) / float64(s.TotalNews) * avg * 100)
	}

	// Top 10 sources by frequency, ties broken by first appearance.
	firstSeen := make(map[string]int, len(sourceOrder))
	for i, src := range sourceOrder {
		firstSeen[src] = i
	}
	sort.SliceStable(sourceOrder, func(i, j int) bool {
		a, b := sourceOrder[i], sourceOrder[j]
		if sourceCounts[a] != sourceCounts[b] {
			return sourceCounts[a] > sourceCounts[b]
		}
		return firstSeen[a] < firstSeen[b]
	})
	if len(sourceOrder) > 10 {
		sourceOrder = sourceOrder[:10]
	}
	for _, src := range sourceOrder {
		s.SourceBreakdown[src] = sourceCounts[src]
	}
	return s
}

// buildTimeline buckets items into the last 7 calendar days by matching the
// item's free-text date against the full YYYY-MM-DD day string.
func buildTimeline(items []NewsItem, now time.Time) []TimelineEntry {
	timeline := make([]TimelineEntry, 0, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		entry := TimelineEntry{Date: day}
		for _, item := range items {
			if !strings.HasPrefix(item.Date, day) {
				continue
			}
			entry.Total++
			if v := item.Verification; v != nil {
				switch v.Verdict {
				case agents.VerdictReal:
					entry.Real++
				case agents.VerdictFake:
					entry.Fake++
				default:
					entry.Uncertain++
				}
			} else {
				entry.Uncertain++
			}
		}
		timeline = append(timeline, entry)
	}
	return timeline
}

func buildGraphData(stats Statistics) GraphData {
	g := GraphData{
		VerdictDistribution: []NamedValue{
			{Name: "Real", Value: stats.RealCount, Color: "#10B981"},
			{Name: "Fake", Value: stats.FakeCount, Color: "#EF4444"},
			{Name: "Uncertain", Value: stats.UncertainCount, Color: "#F59E0B"},
		},
		SentimentDistribution: []NamedValue{
			{Name: "Positive", Value: stats.SentimentBreakdown["positive"], Color: "#10B981"},
			{Name: "Negative", Value: stats.SentimentBreakdown["negative"], Color: "#EF4444"},
			{Name: "Neutral", Value: stats.SentimentBreakdown["neutral"], Color: "#6B7280"},
		},
	}

	names := make([]string, 0, len(stats.CategoryBreakdown))
	for name := range stats.CategoryBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g.CategoryDistribution = append(g.CategoryDistribution, NamedValue{Name: name, Value: stats.CategoryBreakdown[name]})
	}
	return g
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
