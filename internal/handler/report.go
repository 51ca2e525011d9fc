package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	"github.com/segyhp/portfolio-reporting/internal/repository"
	"github.com/segyhp/portfolio-reporting/internal/service"
	customError "github.com/segyhp/portfolio-reporting/pkg/errors"
	"github.com/segyhp/portfolio-reporting/pkg/response"
)

// ReportService is the part of service.ReportService the HTTP layer needs.
type ReportService interface {
	GetReports(ctx context.Context, query domain.ReportQuery) (*domain.ReportResponse, error)
	Fallback(kind string, cause error) *domain.FallbackResponse
}

var _ ReportService = (*service.ReportService)(nil)

type ReportHandler struct {
	service ReportService
	digests repository.DigestStore
}

// NewReportHandler wires the report endpoints. digests may be nil when no
// Redis server is configured; the digest endpoint then always answers 404.
func NewReportHandler(service ReportService, digests repository.DigestStore) *ReportHandler {
	return &ReportHandler{
		service: service,
		digests: digests,
	}
}

// GetReports serves GET /api/reports?search=&status=&period=&kind=
func (h *ReportHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.ReportQuery{
		Kind:   q.Get("kind"),
		Search: q.Get("search"),
		Status: q.Get("status"),
		Period: q.Get("period"),
	}

	result, err := h.service.GetReports(r.Context(), query)
	if err != nil {
		response.RequestLogger(r).Warn().Err(err).Str("kind", query.Kind).Msg("Serving demo report")
		response.Write(w, http.StatusInternalServerError, h.service.Fallback(query.Kind, err))
		return
	}

	response.Write(w, http.StatusOK, result)
}

// GetDigest serves GET /api/reports/digest?kind=
func (h *ReportHandler) GetDigest(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = service.DefaultKind
	}

	if h.digests == nil {
		response.NotFound(w, "Digest not available")
		return
	}

	digest, err := h.digests.Latest(r.Context(), kind)
	switch {
	case errors.Is(err, customError.ErrDigestNotFound):
		response.NotFound(w, "Digest not available")
	case err != nil:
		response.RequestLogger(r).Error().Err(err).Str("kind", kind).Msg("Failed to read digest")
		response.Message(w, http.StatusServiceUnavailable, "Digest store unavailable")
	default:
		response.Write(w, http.StatusOK, digest)
	}
}

// NotFound answers every unmatched route and method.
func NotFound(w http.ResponseWriter, r *http.Request) {
	err := customError.WrapRouteNotFound(r.Method, r.URL.Path)
	response.RequestLogger(r).Debug().Err(err).Msg("Unmatched route")
	response.NotFound(w, "Not found")
}
