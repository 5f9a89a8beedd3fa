package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/analysis"
	"github.com/Parthsawant1298/Veritas/pkg/core"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

func snapshotDoc(t *testing.T, stats analysis.Statistics, newsCount int) []byte {
	t.Helper()
	news := make([]analysis.NewsItem, 0, newsCount)
	for i := 0; i < newsCount; i++ {
		news = append(news, analysis.NewsItem{ID: i + 1, Title: fmt.Sprintf("Item %d", i+1)})
	}
	doc, err := json.Marshal(analysis.Snapshot{
		CompanyID:    testCompanyID,
		CompanyName:  "Acme",
		Statistics:   stats,
		VerifiedNews: news,
	})
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return doc
}

func TestFetchNewsHandler(t *testing.T) {
	analyzer := &fakeAnalyzer{result: analysis.FetchResult{
		Success: true,
		Message: "Comprehensive analysis completed successfully",
	}}
	h := FetchNewsHandler{Config: testConfig(), Analyzer: analyzer}

	rr := postJSON(t, h, "/api/company/fetch-news", `{"companyId":"`+testCompanyID+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	if analyzer.lastID != testCompanyID {
		t.Errorf("analyzer id = %q", analyzer.lastID)
	}
	var got analysis.FetchResult
	decodeBody(t, rr, &got)
	if !got.Success {
		t.Errorf("result = %+v", got)
	}
}

func TestFetchNewsHandlerErrors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		h := FetchNewsHandler{Config: testConfig(), Analyzer: &fakeAnalyzer{}}
		rr := postJSON(t, h, "/api/company/fetch-news", `{"companyId":"nope"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rr.Code)
		}
	})

	t.Run("unknown company", func(t *testing.T) {
		h := FetchNewsHandler{Config: testConfig(), Analyzer: &fakeAnalyzer{err: core.NewNotFoundError("Company not found")}}
		rr := postJSON(t, h, "/api/company/fetch-news", `{"companyId":"`+testCompanyID+`"}`)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status=%d", rr.Code)
		}
	})

	t.Run("pipeline failure surfaces message", func(t *testing.T) {
		h := FetchNewsHandler{Config: testConfig(), Analyzer: &fakeAnalyzer{err: errors.New("persist snapshot: disk full")}}
		rr := postJSON(t, h, "/api/company/fetch-news", `{"companyId":"`+testCompanyID+`"}`)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d", rr.Code)
		}
		var env struct {
			Error core.Error `json:"error"`
		}
		decodeBody(t, rr, &env)
		if env.Error.Message != "persist snapshot: disk full" {
			t.Errorf("message = %q", env.Error.Message)
		}
	})
}

func dashboardRequest(h http.Handler, companyID string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.Handle("GET /api/company/dashboard/{company_id}", h)
	req := httptest.NewRequest(http.MethodGet, "/api/company/dashboard/"+companyID, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestDashboardHandlerNoData(t *testing.T) {
	dir := &fakeDirectory{
		companies: map[string]*store.Company{testCompanyID: {ID: testCompanyID, Name: "Acme"}},
	}
	h := DashboardHandler{Store: dir}

	rr := dashboardRequest(h, testCompanyID)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	var got dashboardEmptyResponse
	decodeBody(t, rr, &got)
	if got.HasData || got.CompanyName != "Acme" {
		t.Errorf("response = %+v", got)
	}
	if got.Message != "No data yet. Click 'Fetch Latest News' to start tracking." {
		t.Errorf("message = %q", got.Message)
	}
}

func TestDashboardHandler(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	latestStats := analysis.Statistics{
		TotalNews: 30, RealCount: 20, FakeCount: 5, UncertainCount: 5,
		AvgConfidence: 0.7, ReliabilityScore: 46.7,
		CategoryBreakdown: map[string]int{
			"Financial": 10, "Legal/Regulatory": 8, "Breaking News": 8, "Partnerships": 4,
		},
	}
	prevStats := analysis.Statistics{
		TotalNews: 25, RealCount: 12, FakeCount: 8, UncertainCount: 5,
		AvgConfidence: 0.6, ReliabilityScore: 28.8,
	}

	dir := &fakeDirectory{
		companies: map[string]*store.Company{testCompanyID: {ID: testCompanyID, Name: "Acme"}},
		history: map[string][]store.SnapshotRecord{
			testCompanyID: {
				{ID: "s2", CompanyID: testCompanyID, TakenAt: now.Add(-2 * time.Hour), Doc: snapshotDoc(t, latestStats, 25)},
				{ID: "s1", CompanyID: testCompanyID, TakenAt: now.Add(-26 * time.Hour), Doc: snapshotDoc(t, prevStats, 25)},
			},
		},
	}
	h := DashboardHandler{Store: dir, Now: func() time.Time { return now }}

	rr := dashboardRequest(h, testCompanyID)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}

	var got dashboardResponse
	decodeBody(t, rr, &got)

	if !got.HasData || got.CompanyID != testCompanyID || got.CompanyName != "Acme" {
		t.Errorf("identity fields = %+v", got)
	}
	if len(got.VerifiedNews) != 20 || len(got.AllVerifiedNews) != 25 {
		t.Errorf("news lengths = %d/%d, want 20/25", len(got.VerifiedNews), len(got.AllVerifiedNews))
	}
	if len(got.Timeline) != 2 {
		t.Fatalf("timeline = %+v", got.Timeline)
	}
	if got.Timeline[0].ReliabilityScore != 46.7 || got.Timeline[1].ReliabilityScore != 28.8 {
		t.Errorf("timeline scores = %+v", got.Timeline)
	}
	if got.TrendData.ReliabilityTrend != "improving" {
		t.Errorf("reliability trend = %q", got.TrendData.ReliabilityTrend)
	}
	if got.TrendData.NewsVolumeTrend != "increasing" {
		t.Errorf("volume trend = %q", got.TrendData.NewsVolumeTrend)
	}
	if got.TrendData.FakeNewsTrend != "decreasing" {
		t.Errorf("fake trend = %q", got.TrendData.FakeNewsTrend)
	}
	if got.TotalFetches != 2 {
		t.Errorf("total fetches = %d", got.TotalFetches)
	}
	if got.DataFreshness != 2 {
		t.Errorf("data freshness = %v hours", got.DataFreshness)
	}

	if got.Summary.AvgConfidence != 0.7 || got.Summary.ReliabilityScore != 46.7 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if len(got.Summary.TopCategories) != 3 {
		t.Fatalf("top categories = %+v", got.Summary.TopCategories)
	}
	if got.Summary.TopCategories[0][0] != "Financial" {
		t.Errorf("top category = %v", got.Summary.TopCategories[0])
	}
	if got.Summary.TopCategories[1][0] != "Breaking News" {
		t.Errorf("tie break = %v", got.Summary.TopCategories[1])
	}
}

func TestDashboardHandlerErrors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		rr := dashboardRequest(DashboardHandler{Store: &fakeDirectory{}}, "short")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rr.Code)
		}
	})

	t.Run("unknown company", func(t *testing.T) {
		rr := dashboardRequest(DashboardHandler{Store: &fakeDirectory{}}, testCompanyID)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status=%d", rr.Code)
		}
	})
}

func TestListCompaniesHandler(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	otherID := "507f1f77bcf86cd799439022"
	dir := &fakeDirectory{
		companies: map[string]*store.Company{
			testCompanyID: {ID: testCompanyID, Name: "Acme", Email: "ir@acme.example"},
			otherID:       {ID: otherID, Name: "Globex", Email: "press@globex.example"},
		},
		history: map[string][]store.SnapshotRecord{
			testCompanyID: {
				{ID: "s1", CompanyID: testCompanyID, TakenAt: now.Add(-time.Hour), Doc: snapshotDoc(t, analysis.Statistics{
					TotalNews: 30, ReliabilityScore: 52.5,
				}, 0)},
			},
		},
	}
	h := ListCompaniesHandler{Store: dir, Now: func() time.Time { return now }}

	req := httptest.NewRequest(http.MethodGet, "/api/company/list", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}

	var got listResponse
	decodeBody(t, rr, &got)
	if got.TotalCompanies != 2 || len(got.Companies) != 2 {
		t.Fatalf("response = %+v", got)
	}

	byID := map[string]companyEntry{}
	for _, c := range got.Companies {
		byID[c.ID] = c
	}
	acme := byID[testCompanyID]
	if acme.LatestAnalysis == nil || acme.LatestAnalysis.TotalNews != 30 || acme.LatestAnalysis.ReliabilityScore != 52.5 {
		t.Errorf("acme latest analysis = %+v", acme.LatestAnalysis)
	}
	if byID[otherID].LatestAnalysis != nil {
		t.Errorf("globex latest analysis = %+v, want nil", byID[otherID].LatestAnalysis)
	}

	if got.AnalyticsSummary.CompaniesWithData != 1 || got.AnalyticsSummary.TotalNewsTracked != 1 {
		t.Errorf("analytics summary = %+v", got.AnalyticsSummary)
	}
	if got.AnalyticsSummary.LastUpdate != "2026-08-30T12:00:00Z" {
		t.Errorf("last update = %q", got.AnalyticsSummary.LastUpdate)
	}
}
