package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acestone/renovation-leads/pkg/logging"
)

// Handler maps the lead HTTP API onto the intake service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a leads HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create handles POST /api/leads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode lead request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lead, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Validation error",
				"details": ve.Details,
			})
			return
		}
		h.logger.Error("failed to create lead", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// List handles GET /api/leads.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// GetStats handles GET /api/leads/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// updateStatusRequest is the PATCH body for a status change.
type updateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /api/leads/{id}/status. An unknown id is a 404,
// never a 500.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lead, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "Lead not found")
	case err != nil:
		h.logger.Error("failed to update lead status", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update lead status")
	default:
		writeJSON(w, http.StatusOK, lead)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
