package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"famiglia/internal/store"
	"famiglia/internal/websocket"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	admin    *store.AdminStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewSettingsHandler(settings *store.SettingsStore, admin *store.AdminStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, admin: admin, hub: hub, logger: logger}
}

func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetAll()
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.settings.Set(req.Key, req.Value); err != nil {
		h.logger.Error("set setting", "key", req.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}

	h.hub.Changed(websocket.EntitySettings, "updated", 0)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *SettingsHandler) GetLoginSequence(w http.ResponseWriter, r *http.Request) {
	sequence, err := h.settings.LoginSequence()
	if err != nil {
		h.logger.Error("get login sequence", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load sequence")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sequence": sequence})
}

func (h *SettingsHandler) SetLoginSequence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sequence []string `json:"sequence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.settings.SetLoginSequence(req.Sequence); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.hub.Changed(websocket.EntitySettings, "updated", 0)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// WipeData empties every data table. The frontend requires a typed
// confirmation before calling this.
func (h *SettingsHandler) WipeData(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.WipeData(); err != nil {
		h.logger.Error("wipe data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to wipe data")
		return
	}

	h.logger.Warn("all data wiped")
	h.hub.Changed(websocket.EntitySettings, "wiped", 0)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
