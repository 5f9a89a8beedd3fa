package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/agents"
	"github.com/Parthsawant1298/Veritas/pkg/analysis"
	"github.com/Parthsawant1298/Veritas/pkg/core"
	"github.com/Parthsawant1298/Veritas/pkg/dataquery"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

const testCompanyID = "507f1f77bcf86cd799439011"

func testConfig() config.Config {
	return config.Config{
		Addr:                ":8000",
		GoogleAPIKey:        "test-key",
		DatabaseURL:         "postgres://localhost/veritas",
		TextModel:           "gemini-2.5-flash",
		TTSModel:            "gemini-2.5-flash-preview-tts",
		TTSVoice:            "Kore",
		LiveModel:           "gemini-2.5-flash-native-audio-preview-09-2025",
		LiveVoice:           "Puck",
		MaxBodyBytes:        1 << 20,
		ReadHeaderTimeout:   10 * time.Second,
		ReadTimeout:         30 * time.Second,
		HandlerTimeout:      time.Minute,
		FetchTimeout:        time.Minute,
		ShutdownGracePeriod: 30 * time.Second,
	}
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

type fakeRouter struct {
	decision  agents.RouteDecision
	synth     string
	lastText  string
	lastQuery string
}

func (f *fakeRouter) Route(_ context.Context, userText string) agents.RouteDecision {
	f.lastText = userText
	return f.decision
}

func (f *fakeRouter) Synthesize(_ context.Context, userQuery string, _ agents.CheckResult) string {
	f.lastQuery = userQuery
	return f.synth
}

type fakeChecker struct {
	result    agents.CheckResult
	lastQuery string
}

func (f *fakeChecker) Check(_ context.Context, query string) agents.CheckResult {
	f.lastQuery = query
	return f.result
}

type fakeScanner struct {
	trends    []agents.CrisisTrend
	lastTopic string
}

func (f *fakeScanner) Scan(_ context.Context, topic string) []agents.CrisisTrend {
	f.lastTopic = topic
	return f.trends
}

type fakeTranscriber struct {
	text     string
	lastB64  string
	lastMime string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, base64Audio, mimeType string) string {
	f.lastB64 = base64Audio
	f.lastMime = mimeType
	return f.text
}

type fakeSpeaker struct {
	audio string
}

func (f *fakeSpeaker) Speak(context.Context, string) string { return f.audio }

type fakeAnalyzer struct {
	result analysis.FetchResult
	err    error
	lastID string
}

func (f *fakeAnalyzer) Run(_ context.Context, companyID string) (*analysis.FetchResult, error) {
	f.lastID = companyID
	if f.err != nil {
		return nil, f.err
	}
	return &f.result, nil
}

type fakeResponder struct {
	result  *dataquery.Result
	summary *dataquery.CompanySummary
	err     error
}

func (f *fakeResponder) Process(context.Context, string, string) (*dataquery.Result, error) {
	return f.result, f.err
}

func (f *fakeResponder) Summarize(context.Context, string) (*dataquery.CompanySummary, error) {
	return f.summary, f.err
}

type fakeDirectory struct {
	companies map[string]*store.Company
	history   map[string][]store.SnapshotRecord
}

func (f *fakeDirectory) CompanyByID(_ context.Context, id string) (*store.Company, error) {
	if c, ok := f.companies[id]; ok {
		return c, nil
	}
	return nil, core.NewNotFoundError("Company not found")
}

func (f *fakeDirectory) ListCompanies(context.Context) ([]store.Company, error) {
	out := make([]store.Company, 0, len(f.companies))
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeDirectory) CountCompanies(context.Context) (int, error) {
	return len(f.companies), nil
}

func (f *fakeDirectory) SnapshotHistory(_ context.Context, companyID string, limit int) ([]store.SnapshotRecord, error) {
	recs := f.history[companyID]
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (f *fakeDirectory) CountSnapshots(context.Context) (int, error) {
	total := 0
	for _, recs := range f.history {
		total += len(recs)
	}
	return total, nil
}

func (f *fakeDirectory) CompaniesWithSnapshots(context.Context) (int, error) {
	n := 0
	for _, recs := range f.history {
		if len(recs) > 0 {
			n++
		}
	}
	return n, nil
}
