// Package clarity serves the exported Clarity analytics file as-is.
package clarity

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/seo-check-api/internal/model"
)

// Handler serves a JSON file read from disk on every request.
type Handler struct {
	path   string
	logger *slog.Logger
}

// NewHandler returns a Handler for the file at path.
func NewHandler(path string, logger *slog.Logger) *Handler {
	return &Handler{path: path, logger: logger}
}

// RegisterRoutes attaches GET /clarity-data.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/clarity-data", h.ServeHTTP)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Clarity data is not available.")
			return
		}
		h.logger.Error("failed to read clarity data", "path", h.path, "error", err)
		writeError(w, http.StatusInternalServerError, "Clarity data could not be read.")
		return
	}

	if !json.Valid(data) {
		h.logger.Error("clarity data is not valid JSON", "path", h.path)
		writeError(w, http.StatusInternalServerError, "Clarity data is corrupt.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
