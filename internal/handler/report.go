package handler

import (
	"log/slog"
	"net/http"

	"famiglia/internal/month"
	"famiglia/internal/store"
)

type ReportHandler struct {
	reports *store.ReportStore
	logger  *slog.Logger
}

func NewReportHandler(reports *store.ReportStore, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// MonthlySeries serves the dashboard chart: ?months=N buckets ending
// at the current month, shifted back by ?offset whole months.
func (h *ReportHandler) MonthlySeries(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", 6)
	offset := queryInt(r, "offset", 0)

	series, err := h.reports.MonthlySeries(months, offset)
	if err != nil {
		h.logger.Error("monthly series", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute series")
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary()
	if err != nil {
		h.logger.Error("spending summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// MonthDetail serves the drill-down for one "YYYY-MM" month.
func (h *ReportHandler) MonthDetail(w http.ResponseWriter, r *http.Request) {
	key := month.Key(r.PathValue("month"))
	if !key.Valid() {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	detail, err := h.reports.MonthDetail(key)
	if err != nil {
		h.logger.Error("month detail", "month", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute month detail")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
