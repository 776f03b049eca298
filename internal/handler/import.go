package handler

import (
	"io"
	"log/slog"
	"net/http"

	"famiglia/internal/importer"
	"famiglia/internal/websocket"
)

// maxImportSize caps upload payloads at 10 MB, far beyond any real
// household export.
const maxImportSize = 10 << 20

type ImportHandler struct {
	importer *importer.Importer
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewImportHandler(im *importer.Importer, hub *websocket.Hub, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{importer: im, hub: hub, logger: logger}
}

// readPayload accepts either a multipart upload under the "file" field
// or a raw CSV body.
func (h *ImportHandler) readPayload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	if err := r.ParseMultipartForm(maxImportSize); err == nil {
		file, _, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to read upload")
				return "", false
			}
			return string(data), true
		}
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return "", false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty payload")
		return "", false
	}
	return string(data), true
}

func (h *ImportHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}

	result := h.importer.ImportExpenses(payload)
	if !result.Success {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	h.hub.Changed(websocket.EntityImport, "completed", 0)
	writeJSON(w, http.StatusOK, result)
}

func (h *ImportHandler) Vacations(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}

	result := h.importer.ImportVacations(payload)
	if !result.Success {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	h.hub.Changed(websocket.EntityImport, "completed", 0)
	writeJSON(w, http.StatusOK, result)
}
