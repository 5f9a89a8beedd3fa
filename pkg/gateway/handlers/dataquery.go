package handlers

import (
	"context"
	"net/http"

	"github.com/Parthsawant1298/Veritas/pkg/dataquery"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/config"
	"github.com/Parthsawant1298/Veritas/pkg/store"
)

// DataResponder answers natural-language questions about tracked data.
// *dataquery.Responder satisfies it.
type DataResponder interface {
	Process(ctx context.Context, companyID, userQuery string) (*dataquery.Result, error)
	Summarize(ctx context.Context, companyID string) (*dataquery.CompanySummary, error)
}

type DataQueryHandler struct {
	Config    config.Config
	Responder DataResponder
}

func (h DataQueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}

	var req struct {
		CompanyID string `json:"companyId"`
		UserQuery string `json:"userQuery"`
	}
	if err := decodeJSONBody(r, h.Config.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.ValidateID(req.CompanyID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireField(req.UserQuery, "userQuery"); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestBudget(r, h.Config.HandlerTimeout)
	defer cancel()
	result, err := h.Responder.Process(ctx, req.CompanyID, req.UserQuery)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type CompanySummaryHandler struct {
	Responder DataResponder
}

func (h CompanySummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}

	companyID := r.PathValue("company_id")
	if err := store.ValidateID(companyID); err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.Responder.Summarize(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
