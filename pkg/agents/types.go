// Package agents implements the model-backed agents behind the REST and
// realtime endpoints: fact checking, query routing, crisis scanning, and
// speech transcription/synthesis. Every agent degrades to a fixed default
// result on upstream failure; callers never receive a hard error from an
// agent call.
package agents

import "time"

// Verdict classifies a claim.
type Verdict string

const (
	VerdictReal      Verdict = "REAL"
	VerdictFake      Verdict = "FAKE"
	VerdictUncertain Verdict = "UNCERTAIN"
)

// Parse/fallback defaults. These are a contract, not incidental behavior:
// a field the model response does not spell out takes exactly these values.
const (
	DefaultVerdict    = VerdictUncertain
	DefaultConfidence = 0.5
	DefaultLevel      = "medium"

	// MaxSources caps grounding citations attached to a check result.
	MaxSources = 5
)

// Source is one grounding citation.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// CheckResult is the outcome of a standalone fact check.
type CheckResult struct {
	Verdict     Verdict  `json:"verdict"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	Sources     []Source `json:"sources"`
}

// Verification is the extended per-news-item verification attached to a
// NewsItem during an analysis run.
type Verification struct {
	Verdict     Verdict `json:"verdict"`
	Confidence  float64 `json:"confidence"`
	BiasLevel   string  `json:"bias_level"`
	ImpactLevel string  `json:"impact_level"`
	Reasoning   string  `json:"reasoning"`
	VerifiedAt  string  `json:"verified_at"`
}

// CrisisTrend is one verified trending claim. Ephemeral, never persisted.
type CrisisTrend struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Claim     string    `json:"claim"`
	Severity  string    `json:"severity"`
	Verdict   Verdict   `json:"verdict"`
	Volume    int       `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}
