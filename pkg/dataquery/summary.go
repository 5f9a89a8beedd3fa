package dataquery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/analysis"
)

// CompanySummary is the quick per-company overview.
type CompanySummary struct {
	CompanyName    string          `json:"company_name"`
	TotalAnalyses  int             `json:"total_analyses"`
	LatestAnalysis *AnalysisDigest `json:"latest_analysis"`
}

// AnalysisDigest condenses the latest snapshot.
type AnalysisDigest struct {
	Timestamp  string       `json:"timestamp"`
	TotalNews  int          `json:"total_news"`
	Statistics DigestCounts `json:"statistics"`
}

type DigestCounts struct {
	Real      int `json:"real"`
	Fake      int `json:"fake"`
	Uncertain int `json:"uncertain"`
}

// Summarize returns the company's analysis history digest. The company
// lookup error propagates; a company with no snapshots yields a nil
// LatestAnalysis.
func (r *Responder) Summarize(ctx context.Context, companyID string) (*CompanySummary, error) {
	company, err := r.Store.CompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	records, err := r.Store.SnapshotHistory(ctx, companyID, historyLimit)
	if err != nil {
		return nil, err
	}

	out := &CompanySummary{
		CompanyName:   company.Name,
		TotalAnalyses: len(records),
	}
	if len(records) == 0 {
		return out, nil
	}

	var snap analysis.Snapshot
	if err := json.Unmarshal(records[0].Doc, &snap); err != nil {
		r.log().Warn("latest snapshot is not decodable", "company_id", companyID, "error", err)
		return out, nil
	}

	counts := tallyVerdicts(snap.VerifiedNews)
	out.LatestAnalysis = &AnalysisDigest{
		Timestamp: records[0].TakenAt.UTC().Format(time.RFC3339),
		TotalNews: counts.Total,
		Statistics: DigestCounts{
			Real:      counts.Real,
			Fake:      counts.Fake,
			Uncertain: counts.Uncertain,
		},
	}
	return out, nil
}
