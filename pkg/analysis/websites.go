package analysis

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"google.golang.org/genai"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
)

var (
	websiteRe  = regexp.MustCompile(`WEBSITE:\s*([^\s\n|]+)`)
	socialRe   = regexp.MustCompile(`SOCIAL:\s*([^|]+)`)
	investorRe = regexp.MustCompile(`INVESTOR:\s*([^\s\n|]+)`)
	urlRe      = regexp.MustCompile(`https?://[^\s,\]]+`)
)

// findWebPresence discovers a company's web footprint with one grounded
// call. Fields the response does not name come back empty; an upstream
// failure yields an all-empty result.
func (a *Analyzer) findWebPresence(ctx context.Context, companyName string) WebPresence {
	out := WebPresence{
		SocialMedia: []string{},
		Sources:     []agents.Source{},
		Timestamp:   a.now().UTC().Format(time.RFC3339),
	}

	prompt := fmt.Sprintf("Find the official website, social media accounts, and investor relations page for company: %s. Format: WEBSITE: [url] | SOCIAL: [twitter,linkedin,facebook] | INVESTOR: [url]", companyName)
	resp, err := a.Gen.GenerateContent(ctx, a.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		a.log().Warn("web presence lookup failed", "company", companyName, "error", err)
		return out
	}

	text := resp.Text()
	if m := websiteRe.FindStringSubmatch(text); m != nil {
		out.OfficialWebsite = m[1]
	}
	if m := socialRe.FindStringSubmatch(text); m != nil {
		urls := urlRe.FindAllString(m[1], -1)
		if len(urls) > 5 {
			urls = urls[:5]
		}
		out.SocialMedia = append(out.SocialMedia, urls...)
	}
	if m := investorRe.FindStringSubmatch(text); m != nil {
		out.InvestorRelations = m[1]
	}

	sources := agents.GroundingSources(resp)
	if len(sources) > agents.MaxSources {
		sources = sources[:agents.MaxSources]
	}
	out.Sources = sources
	return out
}
