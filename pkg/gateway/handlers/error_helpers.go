package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/core"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/apierror"
	"github.com/Parthsawant1298/Veritas/pkg/gateway/mw"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	coreErr, status := apierror.FromError(err, reqID)
	writeJSON(w, status, apierror.Envelope{Error: coreErr})
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	writeJSON(w, http.StatusMethodNotAllowed, apierror.Envelope{Error: &core.Error{
		Type:      core.ErrInvalidInput,
		Message:   "method not allowed",
		Code:      "method_not_allowed",
		RequestID: reqID,
	}})
}

// decodeJSONBody decodes the request body into dst. Decode failures come
// back as invalid_input errors for the caller to write.
func decodeJSONBody(r *http.Request, maxBytes int64, dst any) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(nil, body, maxBytes)
	}
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return core.NewInvalidInputError("request body too large")
		}
		return core.NewInvalidInputError("invalid JSON body: " + err.Error())
	}
	return nil
}

// requestBudget bounds a model-bound request. A non-positive budget keeps
// the request context as-is.
func requestBudget(r *http.Request, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), budget)
}

func requireField(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return core.NewInvalidInputErrorWithParam(name+" is required", name)
	}
	return nil
}
