package agents

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

var (
	verdictRe    = regexp.MustCompile(`(?i)VERDICT:\s*(REAL|FAKE|UNCERTAIN)`)
	confidenceRe = regexp.MustCompile(`(?i)CONFIDENCE:\s*([0-9]*\.?[0-9]+)`)
	biasRe       = regexp.MustCompile(`(?i)BIAS:\s*(low|medium|high)`)
	impactRe     = regexp.MustCompile(`(?i)IMPACT:\s*(low|medium|high)`)

	verdictLineRe    = regexp.MustCompile(`(?i)VERDICT:[^\n]*\n?`)
	confidenceLineRe = regexp.MustCompile(`(?i)CONFIDENCE:[^\n]*\n?`)
)

// Checker answers fact-check requests with a single grounded model call and
// fixed-format parsing of the free-text answer. Grounded calls cannot use a
// response schema, so the answer format is enforced by prompt and recovered
// by regex with explicit defaults.
type Checker struct {
	Gen    Generator
	Model  string
	Logger *slog.Logger

	// Now is the clock used for verification timestamps. Nil means time.Now.
	Now func() time.Time
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Checker) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Check verifies a single claim with web-search grounding. It never returns
// an error: an upstream failure yields an UNCERTAIN result with confidence 0.
func (c *Checker) Check(ctx context.Context, query string) CheckResult {
	prompt := fmt.Sprintf(`Fact check: %q. Format: VERDICT: [REAL/FAKE/UNCERTAIN], CONFIDENCE: [0.0-1.0], EXPLANATION: [...]`, query)

	resp, err := c.Gen.GenerateContent(ctx, c.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools:       searchTools(),
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		c.log().Warn("check agent call failed", "error", err)
		return CheckResult{
			Verdict:     VerdictUncertain,
			Confidence:  0.0,
			Explanation: "Tool access failed.",
			Sources:     []Source{},
		}
	}

	sources := GroundingSources(resp)
	if len(sources) > MaxSources {
		sources = sources[:MaxSources]
	}

	text := responseText(resp)
	verdict, confidence := parseVerdictConfidence(text)

	explanation := verdictLineRe.ReplaceAllString(text, "")
	explanation = confidenceLineRe.ReplaceAllString(explanation, "")
	explanation = strings.TrimSpace(explanation)

	return CheckResult{
		Verdict:     verdict,
		Confidence:  confidence,
		Explanation: explanation,
		Sources:     sources,
	}
}

// VerifyNews verifies one news headline in the context of a company. Like
// Check, it never fails; a transport error produces a defaulted verification
// with confidence 0 and unknown bias/impact.
func (c *Checker) VerifyNews(ctx context.Context, headline, source, companyName string) Verification {
	prompt := fmt.Sprintf(`Verify this news about %s: %q from source %q. Check factual accuracy and provide: VERDICT: [REAL/FAKE/UNCERTAIN], CONFIDENCE: [0.0-1.0], BIAS: [low/medium/high], IMPACT: [low/medium/high]`,
		companyName, headline, source)

	resp, err := c.Gen.GenerateContent(ctx, c.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools:       searchTools(),
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		c.log().Warn("news verification call failed", "headline", headline, "error", err)
		return Verification{
			Verdict:     VerdictUncertain,
			Confidence:  0.0,
			BiasLevel:   "unknown",
			ImpactLevel: "unknown",
			Reasoning:   "Verification failed: " + err.Error(),
			VerifiedAt:  c.now().UTC().Format(time.RFC3339),
		}
	}

	text := responseText(resp)
	verdict, confidence := parseVerdictConfidence(text)

	bias := DefaultLevel
	if m := biasRe.FindStringSubmatch(text); m != nil {
		bias = strings.ToLower(m[1])
	}
	impact := DefaultLevel
	if m := impactRe.FindStringSubmatch(text); m != nil {
		impact = strings.ToLower(m[1])
	}

	reasoning := strings.TrimSpace(text)
	if len(reasoning) > 300 {
		reasoning = reasoning[:300]
	}

	return Verification{
		Verdict:     verdict,
		Confidence:  confidence,
		BiasLevel:   bias,
		ImpactLevel: impact,
		Reasoning:   reasoning,
		VerifiedAt:  c.now().UTC().Format(time.RFC3339),
	}
}

func parseVerdictConfidence(text string) (Verdict, float64) {
	verdict := DefaultVerdict
	if m := verdictRe.FindStringSubmatch(text); m != nil {
		verdict = Verdict(strings.ToUpper(m[1]))
	}

	confidence := DefaultConfidence
	if m := confidenceRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			confidence = clamp01(v)
		}
	}
	return verdict, confidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
