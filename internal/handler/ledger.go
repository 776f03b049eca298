package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"famiglia/internal/model"
	"famiglia/internal/money"
	"famiglia/internal/store"
	"famiglia/internal/websocket"
)

type LedgerHandler struct {
	ledger *store.LedgerStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewLedgerHandler(ledger *store.LedgerStore, hub *websocket.Hub, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, hub: hub, logger: logger}
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.Summary()
	if err != nil {
		h.logger.Error("ledger summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load ledger")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string `json:"date"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	entry, err := h.ledger.Create(req.Date, req.Description, amount)
	if err != nil {
		h.logger.Error("create ledger entry", "error", err)
		writeError(w, http.StatusBadRequest, "failed to create entry")
		return
	}

	h.hub.Changed(websocket.EntityLedger, "created", entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

// Pay settles one entry with today's date.
func (h *LedgerHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.ledger.GetByID(id)
	if err != nil {
		h.logger.Error("get ledger entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get entry")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	entry, err := h.ledger.Pay(id)
	if err != nil {
		h.logger.Error("pay ledger entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to pay entry")
		return
	}

	h.hub.Changed(websocket.EntityLedger, "updated", id)
	writeJSON(w, http.StatusOK, entry)
}

// PayAll settles every open entry under one shared payment date.
func (h *LedgerHandler) PayAll(w http.ResponseWriter, r *http.Request) {
	count, err := h.ledger.PayAll()
	if err != nil {
		h.logger.Error("pay all ledger entries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to settle entries")
		return
	}

	h.hub.Changed(websocket.EntityLedger, "updated", 0)
	writeJSON(w, http.StatusOK, map[string]int64{"paid": count})
}

func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.ledger.GetByID(id)
	if err != nil {
		h.logger.Error("get ledger entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get entry")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	if err := h.ledger.Delete(id); err != nil {
		h.logger.Error("delete ledger entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	h.hub.Changed(websocket.EntityLedger, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LedgerHandler) PaymentBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.ledger.PaymentBatches()
	if err != nil {
		h.logger.Error("list payment batches", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}
	if batches == nil {
		batches = []model.PaymentBatch{}
	}
	writeJSON(w, http.StatusOK, batches)
}
