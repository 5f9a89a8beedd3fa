package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// Scanner discovers trending claims about a topic with one grounded call,
// then fans out an independent fact check per claim. Results keep the input
// order regardless of check completion order.
type Scanner struct {
	Checker *Checker
	Gen     Generator
	Model   string
	Logger  *slog.Logger

	// Now is the clock used for trend timestamps. Nil means time.Now.
	Now func() time.Time
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scanner) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Scan finds the top trending claims about a topic and verifies each one
// concurrently. It degrades to an empty list when discovery fails or yields
// nothing parseable.
func (s *Scanner) Scan(ctx context.Context, topic string) []CrisisTrend {
	prompt := fmt.Sprintf(`Find the top 3 trending rumors, news headlines, or viral claims currently circulating about: %q. Return ONLY a JSON array of strings, no markdown.`, topic)

	// Grounded calls cannot request a JSON response MIME type, so the array
	// arrives as free text, possibly fenced.
	resp, err := s.Gen.GenerateContent(ctx, s.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: searchTools(),
	})
	if err != nil {
		s.log().Warn("crisis scan call failed", "topic", topic, "error", err)
		return []CrisisTrend{}
	}

	claims := parseClaims(responseText(resp))
	if len(claims) == 0 {
		return []CrisisTrend{}
	}

	trends := make([]CrisisTrend, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	for i, claim := range claims {
		g.Go(func() error {
			check := s.Checker.Check(gctx, claim)
			severity := "MEDIUM"
			if check.Verdict == VerdictFake {
				severity = "HIGH"
			}
			trends[i] = CrisisTrend{
				ID:        uuid.NewString(),
				Topic:     topic,
				Claim:     claim,
				Severity:  severity,
				Verdict:   check.Verdict,
				Volume:    500 + rand.IntN(1001),
				Timestamp: s.now(),
			}
			return nil
		})
	}
	// Check never errors, so Wait only synchronizes.
	_ = g.Wait()
	return trends
}

func parseClaims(text string) []string {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return nil
	}
	var claims []string
	if err := json.Unmarshal([]byte(clean), &claims); err != nil {
		return nil
	}
	return claims
}
