package uploads

import (
	"encoding/json"
	"net/http"

	"github.com/acestone/renovation-leads/pkg/logging"
)

// maxUploadBytes caps a single photo upload at 10 MB.
const maxUploadBytes = 10 << 20

// Handler accepts multipart photo uploads and returns reference strings the
// quote form attaches to its lead submission.
type Handler struct {
	store  PhotoStore
	logger *logging.Logger
}

// NewHandler creates the uploads HTTP handler.
func NewHandler(store PhotoStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Upload handles POST /api/uploads. Expects a multipart form with a "photo"
// field and responds with {"reference": "..."}.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing photo file"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ref, err := h.store.Put(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("photo upload failed", "error", err, "filename", header.Filename)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store photo"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reference": ref})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
