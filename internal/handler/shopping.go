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

const defaultSuggestionLimit = 8

type ShoppingHandler struct {
	shopping *store.ShoppingStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewShoppingHandler(shopping *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{shopping: shopping, hub: hub, logger: logger}
}

func (h *ShoppingHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.shopping.ListItems()
	if err != nil {
		h.logger.Error("list shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Article string `json:"article"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Article = strings.TrimSpace(req.Article)
	if req.Article == "" {
		writeError(w, http.StatusBadRequest, "article is required")
		return
	}

	item, err := h.shopping.Append(req.Article)
	if err != nil {
		h.logger.Error("append shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.hub.Changed(websocket.EntityShopping, "created", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

// Move shifts an item one place earlier or later in the list.
func (h *ShoppingHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var dir store.MoveDirection
	switch req.Direction {
	case "earlier", "up":
		dir = store.MoveEarlier
	case "later", "down":
		dir = store.MoveLater
	default:
		writeError(w, http.StatusBadRequest, "direction must be earlier or later")
		return
	}

	if err := h.shopping.Move(id, dir); err != nil {
		h.logger.Error("move shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to move item")
		return
	}

	h.hub.Changed(websocket.EntityShopping, "updated", id)

	items, err := h.shopping.ListItems()
	if err != nil {
		h.logger.Error("list shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Purchase removes the item from the list and records it in the
// history, feeding the suggestions.
func (h *ShoppingHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.shopping.Purchase(id)
	if err != nil {
		h.logger.Error("purchase shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to purchase item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.hub.Changed(websocket.EntityShopping, "purchased", id)
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.shopping.GetItemByID(id)
	if err != nil {
		h.logger.Error("get shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := h.shopping.DeleteItem(id); err != nil {
		h.logger.Error("delete shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.hub.Changed(websocket.EntityShopping, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultSuggestionLimit)
	if limit < 1 {
		limit = defaultSuggestionLimit
	}

	suggestions, err := h.shopping.Suggestions(limit)
	if err != nil {
		h.logger.Error("list suggestions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *ShoppingHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.shopping.History()
	if err != nil {
		h.logger.Error("list history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if history == nil {
		history = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}
