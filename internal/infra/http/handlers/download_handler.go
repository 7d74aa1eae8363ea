package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harborlight-care/leadcore/internal/infra/http/middleware"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type TokenRedeemer interface {
	Redeem(ctx context.Context, rawToken string) (*usecase.Download, error)
}

type DownloadHandler struct {
	Tokens TokenRedeemer
}

func NewDownloadHandler(tokens TokenRedeemer) *DownloadHandler {
	return &DownloadHandler{Tokens: tokens}
}

// HandleRedeem streams the gated file for a valid token. Every failure mode
// collapses into one message, so probing tokens reveals nothing about
// whether a guess exists, expired, or points at a pulled resource.
func (h *DownloadHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	rawToken := chi.URLParam(r, "token")
	if rawToken == "" {
		h.writeInvalidLink(w)
		return
	}

	download, err := h.Tokens.Redeem(r.Context(), rawToken)
	if err != nil {
		if usecase.IsDomainError(err) {
			middleware.RecordRedemption("failed")
			h.writeInvalidLink(w)
			return
		}
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Message: "Download failed, please try again"})
		return
	}
	defer download.File.Content.Close()

	middleware.RecordRedemption("ok")

	w.Header().Set("Content-Type", download.File.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.File.Name))
	if download.File.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.File.Size, 10))
	}
	io.Copy(w, download.File.Content)
}

func (h *DownloadHandler) writeInvalidLink(w http.ResponseWriter) {
	writeJSON(w, http.StatusGone, SubmitResponse{Success: false, Message: "This download link is invalid or has expired."})
}
