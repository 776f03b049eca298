package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"famiglia/internal/model"
	"famiglia/internal/store"
	"famiglia/internal/websocket"
)

type VacationHandler struct {
	vacations *store.VacationStore
	reports   *store.ReportStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewVacationHandler(vacations *store.VacationStore, reports *store.ReportStore, hub *websocket.Hub, logger *slog.Logger) *VacationHandler {
	return &VacationHandler{vacations: vacations, reports: reports, hub: hub, logger: logger}
}

type vacationRequest struct {
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func (req *vacationRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.StartDate) == "" {
		return "start_date is required"
	}
	return ""
}

func (h *VacationHandler) List(w http.ResponseWriter, r *http.Request) {
	vacations, err := h.vacations.List()
	if err != nil {
		h.logger.Error("list vacations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list vacations")
		return
	}
	if vacations == nil {
		vacations = []model.Vacation{}
	}
	writeJSON(w, http.StatusOK, vacations)
}

// Active returns the current default vacation for new expenses, or
// null when no vacation is active.
func (h *VacationHandler) Active(w http.ResponseWriter, r *http.Request) {
	vacation, err := h.vacations.Active()
	if err != nil {
		h.logger.Error("get active vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get active vacation")
		return
	}
	writeJSON(w, http.StatusOK, vacation)
}

func (h *VacationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	vacation, err := h.vacations.GetByID(id)
	if err != nil {
		h.logger.Error("get vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vacation")
		return
	}
	if vacation == nil {
		writeError(w, http.StatusNotFound, "vacation not found")
		return
	}
	writeJSON(w, http.StatusOK, vacation)
}

func (h *VacationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	vacation, err := h.vacations.Create(req.Name, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("create vacation", "error", err)
		writeError(w, http.StatusBadRequest, "failed to create vacation")
		return
	}

	h.hub.Changed(websocket.EntityVacation, "created", vacation.ID)
	writeJSON(w, http.StatusCreated, vacation)
}

func (h *VacationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.vacations.GetByID(id)
	if err != nil {
		h.logger.Error("get vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vacation")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vacation not found")
		return
	}

	var req vacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	vacation, err := h.vacations.Update(id, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("update vacation", "error", err)
		writeError(w, http.StatusBadRequest, "failed to update vacation")
		return
	}

	h.hub.Changed(websocket.EntityVacation, "updated", id)
	writeJSON(w, http.StatusOK, vacation)
}

// SetActive toggles whether the vacation is the default target for new
// expenses.
func (h *VacationHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.vacations.GetByID(id)
	if err != nil {
		h.logger.Error("get vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vacation")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vacation not found")
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	vacation, err := h.vacations.SetActive(id, req.Active)
	if err != nil {
		h.logger.Error("set vacation active", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update vacation")
		return
	}

	h.hub.Changed(websocket.EntityVacation, "updated", id)
	writeJSON(w, http.StatusOK, vacation)
}

func (h *VacationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.vacations.GetByID(id)
	if err != nil {
		h.logger.Error("get vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vacation")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vacation not found")
		return
	}

	if err := h.vacations.Delete(id); err != nil {
		h.logger.Error("delete vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete vacation")
		return
	}

	h.hub.Changed(websocket.EntityVacation, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// CategoryBreakdown sums the vacation's expenses by category for the
// vacation detail view.
func (h *VacationHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	totals, err := h.reports.VacationCategoryBreakdown(id)
	if err != nil {
		h.logger.Error("vacation breakdown", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute breakdown")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
