package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type stubRedeemer struct {
	download *usecase.Download
	err      error
}

func (s *stubRedeemer) Redeem(context.Context, string) (*usecase.Download, error) {
	return s.download, s.err
}

func getDownload(h *DownloadHandler, token string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/download/{token}", h.HandleRedeem)
	req := httptest.NewRequest(http.MethodGet, "/api/download/"+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleRedeemStreamsFile(t *testing.T) {
	h := NewDownloadHandler(&stubRedeemer{download: &usecase.Download{
		File: &usecase.File{
			Name:        "funding.pdf",
			Size:        4,
			ContentType: "application/pdf",
			Content:     io.NopCloser(strings.NewReader("%PDF")),
		},
		Resource: &entity.Resource{ID: "res-7"},
		Token:    &entity.DownloadToken{LeadID: "lead-42"},
	}})

	rec := getDownload(h, "sometoken")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "funding.pdf")
	assert.Equal(t, "%PDF", rec.Body.String())
}

// Not-found, expired and unavailable must be indistinguishable to a caller
// probing for valid tokens.
func TestHandleRedeemCollapsesFailureCauses(t *testing.T) {
	for _, cause := range []error{
		usecase.ErrTokenNotFound,
		usecase.ErrTokenExpired,
		usecase.ErrResourceUnavailable,
	} {
		h := NewDownloadHandler(&stubRedeemer{err: cause})
		rec := getDownload(h, "sometoken")

		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid or has expired")
	}
}

func TestHandleRedeemInfrastructureError(t *testing.T) {
	h := NewDownloadHandler(&stubRedeemer{err: io.ErrUnexpectedEOF})
	rec := getDownload(h, "sometoken")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
