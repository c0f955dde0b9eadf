package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/report"
)

const (
	contentTypePDF = "application/pdf"
	contentTypeCSV = "text/csv; charset=utf-8"
)

func (h *HTTPHandler) InventoryReportPDF(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.InventoryReport(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	now := h.queries.Now()
	h.respondReport(w, r, report.Filename("inventory", "pdf", now), contentTypePDF, func(out io.Writer) error {
		return report.InventoryPDF(out, items, now)
	})
}

func (h *HTTPHandler) IssuanceReportPDF(w http.ResponseWriter, r *http.Request) {
	recs, err := h.queries.IssuanceReport(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	now := h.queries.Now()
	h.respondReport(w, r, report.Filename("issuances", "pdf", now), contentTypePDF, func(out io.Writer) error {
		return report.IssuancePDF(out, recs, now)
	})
}

func (h *HTTPHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.InventoryReport(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondReport(w, r, report.Filename("inventory", "csv", h.queries.Now()), contentTypeCSV, func(out io.Writer) error {
		return report.InventoryCSV(out, items)
	})
}

func (h *HTTPHandler) IssuanceReport(w http.ResponseWriter, r *http.Request) {
	recs, err := h.queries.IssuanceReport(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	now := h.queries.Now()
	h.respondReport(w, r, report.Filename("issuances", "csv", now), contentTypeCSV, func(out io.Writer) error {
		return report.IssuanceCSV(out, recs, now)
	})
}

// respondReport renders into memory first so a rendering failure still
// produces a JSON error instead of a truncated download.
func (h *HTTPHandler) respondReport(w http.ResponseWriter, r *http.Request, filename, contentType string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logger.FromContext(r.Context()).Error("render report", "file", filename, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("write report", "file", filename, "error", err)
	}
}
