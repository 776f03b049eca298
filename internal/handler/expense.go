package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"famiglia/internal/money"
	"famiglia/internal/store"
	"famiglia/internal/websocket"
)

type ExpenseHandler struct {
	expenses *store.ExpenseStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewExpenseHandler(expenses *store.ExpenseStore, hub *websocket.Hub, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, hub: hub, logger: logger}
}

// expenseRequest carries the amount as a string so the handler can
// accept both "12.50" and the Italian "12,50".
type expenseRequest struct {
	Date       string `json:"date"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Note       string `json:"note"`
	VacationID int64  `json:"vacation_id"`
	Extra      bool   `json:"extra"`
}

func (req *expenseRequest) parse() (money.Cents, string) {
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		return 0, "category is required"
	}
	if strings.TrimSpace(req.Date) == "" {
		return 0, "date is required"
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return 0, "invalid amount"
	}
	if amount <= 0 {
		return 0, "amount must be positive"
	}
	if req.VacationID < 0 {
		return 0, "invalid vacation_id"
	}
	return amount, ""
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ExpenseFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}
	if raw := r.URL.Query().Get("vacation_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid vacation_id")
			return
		}
		filter.VacationID = id
	}

	page, err := h.expenses.List(filter)
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	expense, err := h.expenses.GetByID(id)
	if err != nil {
		h.logger.Error("get expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}
	if expense == nil {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	amount, msg := req.parse()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	expense, err := h.expenses.Create(req.Date, req.Category, amount, req.Note, req.VacationID, req.Extra)
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeError(w, http.StatusBadRequest, "failed to create expense")
		return
	}

	h.hub.Changed(websocket.EntityExpense, "created", expense.ID)
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.expenses.GetByID(id)
	if err != nil {
		h.logger.Error("get expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	amount, msg := req.parse()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	expense, err := h.expenses.Update(id, req.Date, req.Category, amount, req.Note, req.VacationID, req.Extra)
	if err != nil {
		h.logger.Error("update expense", "error", err)
		writeError(w, http.StatusBadRequest, "failed to update expense")
		return
	}

	h.hub.Changed(websocket.EntityExpense, "updated", id)
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.expenses.GetByID(id)
	if err != nil {
		h.logger.Error("get expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	if err := h.expenses.Delete(id); err != nil {
		h.logger.Error("delete expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	h.hub.Changed(websocket.EntityExpense, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
