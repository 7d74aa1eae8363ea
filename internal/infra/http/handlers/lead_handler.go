package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/harborlight-care/leadcore/internal/infra/http/middleware"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type LeadSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitLeadInput) (*usecase.SubmitLeadOutput, error)
}

type FormTokenIssuer interface {
	Issue() string
}

type LeadHandler struct {
	Submitter LeadSubmitter
	Forms     FormTokenIssuer
}

func NewLeadHandler(submitter LeadSubmitter, forms FormTokenIssuer) *LeadHandler {
	return &LeadHandler{Submitter: submitter, Forms: forms}
}

type SubmitResponse struct {
	Success bool              `json:"success"`
	ID      string            `json:"id,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (h *LeadHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	input.IP = clientIP(r)
	input.UserAgent = r.UserAgent()
	input.Referrer = r.Referer()
	input.UTM = r.URL.Query().Get("utm_source")

	output, err := h.Submitter.Execute(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	middleware.RecordLeadCaptured(input.Kind)
	writeJSON(w, http.StatusOK, SubmitResponse{Success: true, ID: output.ID})
}

// HandleFormToken hands the rendered form its anti-forgery token.
func (h *LeadHandler) HandleFormToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"form_token": h.Forms.Issue()})
}

func (h *LeadHandler) writeError(w http.ResponseWriter, err error) {
	var verrs usecase.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, ve := range verrs {
			fields[ve.Field] = ve.Message
		}
		middleware.RecordSubmissionRejected("validation")
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Message: "Validation failed", Errors: fields})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrConsentRequired):
		middleware.RecordSubmissionRejected("consent")
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Message: usecase.ErrConsentRequired.Message})
	case errors.Is(err, usecase.ErrRateLimited):
		// Generic wording only; no remaining-quota detail.
		middleware.RecordSubmissionRejected("rate_limited")
		writeJSON(w, http.StatusTooManyRequests, SubmitResponse{Success: false, Message: usecase.ErrRateLimited.Message})
	case errors.Is(err, usecase.ErrSecurityCheck):
		middleware.RecordSubmissionRejected("security")
		writeJSON(w, http.StatusForbidden, SubmitResponse{Success: false, Message: usecase.ErrSecurityCheck.Message})
	default:
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Message: "Failed to process submission"})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Left-most entry is the original client.
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
