package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/appshelf"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes a JSON error response based on the error type. Used by
// the /api routes.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appshelf.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, appshelf.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid input")
	case errors.Is(err, appshelf.ErrAppsRootMissing):
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "apps_root_missing", "Apps directory not found")
	case errors.Is(err, appshelf.ErrInvalidCatalog):
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "invalid_catalog", "Catalog cannot be read")
	default:
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// HandlePageError writes an HTML error page based on the error type. Used by
// the page routes and package downloads.
func HandlePageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appshelf.ErrTemplateNotFound):
		slog.Warn("page template missing", "error", err)
		writeErrorPage(w, http.StatusNotFound, "Template not found")
	case errors.Is(err, appshelf.ErrNotFound):
		writeErrorPage(w, http.StatusNotFound, "File not found")
	case errors.Is(err, appshelf.ErrInvalidInput):
		writeErrorPage(w, http.StatusBadRequest, "Invalid path")
	case errors.Is(err, appshelf.ErrAppsRootMissing):
		slog.Error("request error", "error", err)
		writeErrorPage(w, http.StatusInternalServerError, "Apps directory not found")
	default:
		slog.Error("request error", "error", err)
		writeErrorPage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
