package analysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
)

// TargetNewsCount is the fixed size of every discovery result. Shortfalls
// are padded with filler items, surplus is truncated.
const TargetNewsCount = 30

var newsCategories = []string{
	"Breaking News",
	"Financial",
	"Product/Innovation",
	"Partnerships",
	"Legal/Regulatory",
}

// Per-category item counts requested from the gateway, matching
// newsCategories by index. Earlier categories get a higher relevance score.
var newsQueryCounts = []int{12, 10, 8, 6, 4}

var newsQueryTopics = []string{
	"most recent news headlines about %s from last 7 days",
	"financial news about %s earnings, revenue, stock, investments",
	"product launches and innovation news about %s",
	"partnership and business deals news about %s",
	"regulatory and legal news about %s",
}

var newsLineRe = regexp.MustCompile(`(?i)NEWS:\s*([^|]+)\s*\|\s*SOURCE:\s*([^|]+)\s*\|\s*DATE:\s*([^|]+)\s*\|\s*SENTIMENT:\s*([^\n]+)`)

type citedSource struct {
	agents.Source
	category string
}

// discoverNews issues the five grounded category searches and assembles
// exactly TargetNewsCount items. Individual search failures are skipped;
// missing items become filler.
func (a *Analyzer) discoverNews(ctx context.Context, companyName string) []NewsItem {
	var items []NewsItem
	var citations []citedSource
	stamp := a.now().UTC().Format(time.RFC3339)

	for i, topic := range newsQueryTopics {
		category := newsCategories[i]
		prompt := fmt.Sprintf("Find %d %s. Format: NEWS: [headline] | SOURCE: [source] | DATE: [date] | SENTIMENT: [positive/negative/neutral]",
			newsQueryCounts[i], fmt.Sprintf(topic, companyName))

		resp, err := a.Gen.GenerateContent(ctx, a.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			Temperature: genai.Ptr[float32](0.2),
		})
		if err != nil {
			a.log().Warn("news search failed", "category", category, "error", err)
			continue
		}

		for _, src := range agents.GroundingSources(resp) {
			citations = append(citations, citedSource{Source: src, category: category})
		}

		for _, m := range newsLineRe.FindAllStringSubmatch(resp.Text(), -1) {
			headline := strings.TrimSpace(m[1])
			item := NewsItem{
				ID:             len(items) + 1,
				Title:          headline,
				Summary:        fmt.Sprintf("%s about %s", category, companyName),
				Source:         strings.TrimSpace(m[2]),
				Date:           strings.TrimSpace(m[3]),
				Category:       category,
				Sentiment:      strings.ToLower(strings.TrimSpace(m[4])),
				RelevanceScore: 0.9 - float64(i)*0.1,
				Timestamp:      stamp,
			}
			if matched := matchCitation(headline, citations); matched != nil {
				item.SourceURL = matched.URI
			}
			items = append(items, item)
		}
	}

	// Pad to the fixed count, cycling categories.
	for len(items) < TargetNewsCount {
		category := newsCategories[len(items)%len(newsCategories)]
		items = append(items, NewsItem{
			ID:             len(items) + 1,
			Title:          fmt.Sprintf("Additional %s news item #%d", companyName, len(items)+1),
			Summary:        fmt.Sprintf("%s news about %s", category, companyName),
			Source:         "Web Search",
			Date:           "Recent",
			Category:       category,
			Sentiment:      "neutral",
			RelevanceScore: 0.5,
			Timestamp:      stamp,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
	return items[:TargetNewsCount]
}

// matchCitation cross-references a headline against collected citations by
// testing whether any of the headline's first four lowercased words appears
// in a citation title. First match wins, in citation-collection order.
func matchCitation(headline string, citations []citedSource) *citedSource {
	words := strings.Fields(strings.ToLower(headline))
	if len(words) > 4 {
		words = words[:4]
	}
	for i := range citations {
		title := strings.ToLower(citations[i].Title)
		for _, word := range words {
			if strings.Contains(title, word) {
				return &citations[i]
			}
		}
	}
	return nil
}
