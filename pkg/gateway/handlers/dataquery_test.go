package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Parthsawant1298/Veritas/pkg/core"
	"github.com/Parthsawant1298/Veritas/pkg/dataquery"
)

func TestDataQueryHandler(t *testing.T) {
	responder := &fakeResponder{result: &dataquery.Result{
		Success:  true,
		Message:  "Query processed successfully",
		Response: "Acme has 20 real items out of 30.",
		DataSummary: dataquery.Summary{
			CompanyName: "Acme",
			QueryType:   "statistics",
			DataPoints:  30,
			RealCount:   20,
		},
	}}
	h := DataQueryHandler{Config: testConfig(), Responder: responder}

	rr := postJSON(t, h, "/api/data-query", `{"companyId":"`+testCompanyID+`","userQuery":"how much is real?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	var got dataquery.Result
	decodeBody(t, rr, &got)
	if !got.Success || got.DataSummary.RealCount != 20 {
		t.Errorf("result = %+v", got)
	}
}

func TestDataQueryHandlerErrors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		h := DataQueryHandler{Config: testConfig(), Responder: &fakeResponder{}}
		rr := postJSON(t, h, "/api/data-query", `{"companyId":"xx","userQuery":"q"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rr.Code)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		h := DataQueryHandler{Config: testConfig(), Responder: &fakeResponder{}}
		rr := postJSON(t, h, "/api/data-query", `{"companyId":"`+testCompanyID+`"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rr.Code)
		}
	})

	t.Run("unknown company", func(t *testing.T) {
		h := DataQueryHandler{Config: testConfig(), Responder: &fakeResponder{err: core.NewNotFoundError("Company not found")}}
		rr := postJSON(t, h, "/api/data-query", `{"companyId":"`+testCompanyID+`","userQuery":"q"}`)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status=%d", rr.Code)
		}
	})
}

func TestCompanySummaryHandler(t *testing.T) {
	responder := &fakeResponder{summary: &dataquery.CompanySummary{
		CompanyName:   "Acme",
		TotalAnalyses: 3,
		LatestAnalysis: &dataquery.AnalysisDigest{
			Timestamp: "2026-08-28T10:00:00Z",
			TotalNews: 30,
			Statistics: dataquery.DigestCounts{
				Real: 20, Fake: 4, Uncertain: 6,
			},
		},
	}}

	mux := http.NewServeMux()
	mux.Handle("GET /api/company/{company_id}/summary", CompanySummaryHandler{Responder: responder})

	req := httptest.NewRequest(http.MethodGet, "/api/company/"+testCompanyID+"/summary", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}

	var got dataquery.CompanySummary
	decodeBody(t, rr, &got)
	if got.TotalAnalyses != 3 || got.LatestAnalysis == nil || got.LatestAnalysis.Statistics.Real != 20 {
		t.Errorf("summary = %+v", got)
	}
}
