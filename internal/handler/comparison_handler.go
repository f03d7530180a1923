package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"pdf-compare/internal/compare"
	"pdf-compare/internal/domain"
	apperrors "pdf-compare/pkg/errors"

	"github.com/gorilla/mux"
)

const maxRequestBody = 1 << 20

// ComparisonHandler exposes document comparisons over HTTP
type ComparisonHandler struct {
	service domain.ComparisonService
	logger  domain.Logger
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(service domain.ComparisonService, logger domain.Logger) *ComparisonHandler {
	return &ComparisonHandler{
		service: service,
		logger:  logger,
	}
}

// Compare compares two stored documents in the requested mode
func (h *ComparisonHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	token, _ := GetTokenFromContext(r)

	report, err := h.service.Compare(r.Context(), req, token)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// CompareText compares the extracted text of two stored documents
func (h *ComparisonHandler) CompareText(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	token, _ := GetTokenFromContext(r)

	report, err := h.service.CompareText(r.Context(), req, token)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// GetComparison returns a stored report. ?format=text renders the plain-text
// summary instead of JSON.
func (h *ComparisonHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token, _ := GetTokenFromContext(r)

	report, err := h.service.GetReport(r.Context(), id, token)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, compare.FormatReport(report))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetDifferences returns only the flagged pages of a stored report
func (h *ComparisonHandler) GetDifferences(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token, _ := GetTokenFromContext(r)

	report, err := h.service.GetReport(r.Context(), id, token)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":          report.ID,
		"differences": report.Differences(),
	})
}

// ListDocumentComparisons returns summaries of the newest reports that
// include the document on either side
func (h *ComparisonHandler) ListDocumentComparisons(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]
	token, _ := GetTokenFromContext(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondAppError(w, apperrors.NewValidationError("Invalid limit", err.Error()))
			return
		}
		limit = n
	}

	reports, err := h.service.ListComparisons(r.Context(), documentID, limit, token)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	summaries := make([]domain.ComparisonSummary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, report.Summary())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": documentID,
		"comparisons": summaries,
	})
}

func (h *ComparisonHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (domain.CompareRequest, bool) {
	var req domain.CompareRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return req, false
		}
		respondAppError(w, apperrors.NewValidationError("Invalid request body", err.Error()))
		return req, false
	}
	return req, true
}
