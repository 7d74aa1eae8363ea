package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type StatusUpdater interface {
	Execute(ctx context.Context, input usecase.UpdateLeadStatusInput) (*entity.Lead, error)
}

// StatusHandler is the case-worker surface: it moves an enquiry through the
// pipeline. Visitor endpoints never touch it.
type StatusHandler struct {
	Updater StatusUpdater
}

func NewStatusHandler(updater StatusUpdater) *StatusHandler {
	return &StatusHandler{Updater: updater}
}

func (h *StatusHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Message: "Invalid JSON"})
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	lead, err := h.Updater.Execute(r.Context(), input)
	if err != nil {
		var verrs usecase.ValidationErrors
		var derr *usecase.DomainError
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Message: verrs.Error()})
		case errors.Is(err, usecase.ErrLeadNotFound):
			writeJSON(w, http.StatusNotFound, SubmitResponse{Success: false, Message: "Lead not found"})
		case errors.As(err, &derr):
			writeJSON(w, http.StatusConflict, SubmitResponse{Success: false, Message: derr.Message})
		default:
			writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Message: "Failed to update status"})
		}
		return
	}

	writeJSON(w, http.StatusOK, lead)
}
