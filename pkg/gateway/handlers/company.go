package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/analysis"
	"github.com/Parthsawant1298/Veritas/pkg/core"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

const dashboardHistoryLimit = 30

// NewsAnalyzer runs the full fetch-and-verify pipeline. *analysis.Analyzer
// satisfies it.
type NewsAnalyzer interface {
	Run(ctx context.Context, companyID string) (*analysis.FetchResult, error)
}

// Directory is the slice of the document store the company endpoints read.
// *store.Store satisfies it.
type Directory interface {
	CompanyByID(ctx context.Context, id string) (*store.Company, error)
	ListCompanies(ctx context.Context) ([]store.Company, error)
	CountCompanies(ctx context.Context) (int, error)
	SnapshotHistory(ctx context.Context, companyID string, limit int) ([]store.SnapshotRecord, error)
	CountSnapshots(ctx context.Context) (int, error)
	CompaniesWithSnapshots(ctx context.Context) (int, error)
}

type FetchNewsHandler struct {
	Config   config.Config
	Analyzer NewsAnalyzer
	Logger   *slog.Logger
}

func (h FetchNewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		CompanyID string `json:"companyId"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.ValidateID(req.CompanyID); err != nil {
		writeError(w, r, err)
		return
	}

	// The pipeline runs dozens of model calls; give it its own deadline
	// instead of the default handler timeout.
	ctx, cancel := requestBudget(r, h.Config.FetchTimeout)
	defer cancel()

	result, err := h.Analyzer.Run(ctx, req.CompanyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type timelinePoint struct {
	Timestamp        string  `json:"timestamp"`
	Date             string  `json:"date"`
	TotalNews        int     `json:"total_news"`
	Real             int     `json:"real"`
	Fake             int     `json:"fake"`
	Uncertain        int     `json:"uncertain"`
	ReliabilityScore float64 `json:"reliability_score"`
}

type trendData struct {
	ReliabilityTrend string `json:"reliability_trend"`
	NewsVolumeTrend  string `json:"news_volume_trend"`
	FakeNewsTrend    string `json:"fake_news_trend"`
}

type dashboardSummary struct {
	TotalSources     int      `json:"total_sources"`
	AvgConfidence    float64  `json:"avg_confidence"`
	ReliabilityScore float64  `json:"reliability_score"`
	TopCategories    [][2]any `json:"top_categories"`
}

type dashboardResponse struct {
	CompanyName     string                   `json:"company_name"`
	CompanyID       string                   `json:"company_id"`
	HasData         bool                     `json:"has_data"`
	LatestFetch     string                   `json:"latest_fetch"`
	Statistics      analysis.Statistics      `json:"statistics"`
	VerifiedNews    []analysis.NewsItem      `json:"verified_news"`
	AllVerifiedNews []analysis.NewsItem      `json:"all_verified_news"`
	Websites        analysis.WebPresence     `json:"websites"`
	Timeline        []timelinePoint          `json:"timeline"`
	TimelineData    []analysis.TimelineEntry `json:"timeline_data"`
	GraphData       analysis.GraphData       `json:"graph_data"`
	TrendData       trendData                `json:"trend_data"`
	TotalFetches    int                      `json:"total_fetches"`
	DataFreshness   float64                  `json:"data_freshness"`
	Summary         dashboardSummary         `json:"summary"`
}

type dashboardEmptyResponse struct {
	CompanyName string `json:"company_name"`
	HasData     bool   `json:"has_data"`
	Message     string `json:"message"`
}

type DashboardHandler struct {
	Store  Directory
	Logger *slog.Logger
	Now    func() time.Time
}

func (h DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}

	companyID := r.PathValue("company_id")
	if err := store.ValidateID(companyID); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.Store.CompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.Store.SnapshotHistory(r.Context(), companyID, dashboardHistoryLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(records) == 0 {
		writeJSON(w, http.StatusOK, dashboardEmptyResponse{
			CompanyName: company.Name,
			HasData:     false,
			Message:     "No data yet. Click 'Fetch Latest News' to start tracking.",
		})
		return
	}

	snapshots := make([]analysis.Snapshot, 0, len(records))
	timeline := make([]timelinePoint, 0, len(records))
	for _, rec := range records {
		snap, err := analysis.DecodeSnapshot(rec.Doc)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("skipping undecodable snapshot", "snapshot_id", rec.ID, "error", err)
			}
			continue
		}
		snapshots = append(snapshots, snap)
		timeline = append(timeline, timelinePoint{
			Timestamp:        rec.TakenAt.UTC().Format(time.RFC3339),
			Date:             rec.TakenAt.UTC().Format("2006-01-02"),
			TotalNews:        snap.Statistics.TotalNews,
			Real:             snap.Statistics.RealCount,
			Fake:             snap.Statistics.FakeCount,
			Uncertain:        snap.Statistics.UncertainCount,
			ReliabilityScore: snap.Statistics.ReliabilityScore,
		})
	}
	if len(snapshots) == 0 {
		writeError(w, r, core.NewAPIError("stored snapshots could not be decoded"))
		return
	}

	latest := snapshots[0]
	latestAt := records[0].TakenAt

	topNews := latest.VerifiedNews
	if len(topNews) > 20 {
		topNews = topNews[:20]
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		CompanyName:     company.Name,
		CompanyID:       companyID,
		HasData:         true,
		LatestFetch:     latestAt.UTC().Format(time.RFC3339),
		Statistics:      latest.Statistics,
		VerifiedNews:    topNews,
		AllVerifiedNews: latest.VerifiedNews,
		Websites:        latest.Websites,
		Timeline:        timeline,
		TimelineData:    latest.TimelineData,
		GraphData:       latest.GraphData,
		TrendData:       computeTrends(timeline),
		TotalFetches:    len(records),
		DataFreshness:   now().UTC().Sub(latestAt.UTC()).Hours(),
		Summary: dashboardSummary{
			TotalSources:     len(latest.Websites.Sources),
			AvgConfidence:    latest.Statistics.AvgConfidence,
			ReliabilityScore: latest.Statistics.ReliabilityScore,
			TopCategories:    topCategories(latest.Statistics.CategoryBreakdown, 3),
		},
	})
}

// computeTrends compares the two most recent fetches. A single fetch reads
// as stable across the board.
func computeTrends(timeline []timelinePoint) trendData {
	out := trendData{
		ReliabilityTrend: "stable",
		NewsVolumeTrend:  "stable",
		FakeNewsTrend:    "stable",
	}
	if len(timeline) < 2 {
		return out
	}
	if timeline[0].ReliabilityScore > timeline[1].ReliabilityScore {
		out.ReliabilityTrend = "improving"
	}
	if timeline[0].TotalNews > timeline[1].TotalNews {
		out.NewsVolumeTrend = "increasing"
	}
	if timeline[0].Fake < timeline[1].Fake {
		out.FakeNewsTrend = "decreasing"
	}
	return out
}

// topCategories returns up to n [name, count] pairs ordered by descending
// count, ties alphabetical.
func topCategories(breakdown map[string]int, n int) [][2]any {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if breakdown[names[i]] != breakdown[names[j]] {
			return breakdown[names[i]] > breakdown[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}

	out := make([][2]any, 0, len(names))
	for _, name := range names {
		out = append(out, [2]any{name, breakdown[name]})
	}
	return out
}

type companyEntry struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	LatestAnalysis *latestAnalysis `json:"latest_analysis"`
}

type latestAnalysis struct {
	Date             string  `json:"date"`
	ReliabilityScore float64 `json:"reliability_score"`
	TotalNews        int     `json:"total_news"`
}

type listResponse struct {
	TotalCompanies   int              `json:"total_companies"`
	Companies        []companyEntry   `json:"companies"`
	AnalyticsSummary analyticsSummary `json:"analytics_summary"`
}

type analyticsSummary struct {
	CompaniesWithData int    `json:"companies_with_data"`
	TotalNewsTracked  int    `json:"total_news_tracked"`
	LastUpdate        string `json:"last_update"`
}

type ListCompaniesHandler struct {
	Store  Directory
	Logger *slog.Logger
	Now    func() time.Time
}

func (h ListCompaniesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}

	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(companies) > 20 {
		companies = companies[:20]
	}

	entries := make([]companyEntry, 0, len(companies))
	for _, c := range companies {
		entry := companyEntry{ID: c.ID, Name: c.Name, Email: c.Email}

		recs, err := h.Store.SnapshotHistory(r.Context(), c.ID, 1)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if len(recs) > 0 {
			if snap, err := analysis.DecodeSnapshot(recs[0].Doc); err == nil {
				entry.LatestAnalysis = &latestAnalysis{
					Date:             recs[0].TakenAt.UTC().Format(time.RFC3339),
					ReliabilityScore: snap.Statistics.ReliabilityScore,
					TotalNews:        snap.Statistics.TotalNews,
				}
			} else if h.Logger != nil {
				h.Logger.Warn("skipping undecodable snapshot", "snapshot_id", recs[0].ID, "error", err)
			}
		}
		entries = append(entries, entry)
	}

	total, err := h.Store.CountCompanies(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	withData, err := h.Store.CompaniesWithSnapshots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	tracked, err := h.Store.CountSnapshots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	writeJSON(w, http.StatusOK, listResponse{
		TotalCompanies: total,
		Companies:      entries,
		AnalyticsSummary: analyticsSummary{
			CompaniesWithData: withData,
			TotalNewsTracked:  tracked,
			LastUpdate:        now().UTC().Format(time.RFC3339),
		},
	})
}
