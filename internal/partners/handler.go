package partners

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/pkg/logging"
)

// Handler receives partner webhooks, normalizes them and pushes them through
// the same intake pipeline as the public quote form.
type Handler struct {
	intake *leads.Service
	logger *logging.Logger
}

// NewHandler creates the partners webhook handler.
func NewHandler(intake *leads.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{intake: intake, logger: logger}
}

// AngiWebhook handles POST /api/webhooks/angi.
func (h *Handler) AngiWebhook(w http.ResponseWriter, r *http.Request) {
	var payload AngiPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	req, err := NormalizeAngi(&payload)
	if err != nil {
		h.submitError(w, err, "angi", payload.LeadID)
		return
	}
	h.submit(w, r, req, "angi")
}

// HomeAdvisorWebhook handles POST /api/webhooks/homeadvisor.
func (h *Handler) HomeAdvisorWebhook(w http.ResponseWriter, r *http.Request) {
	var payload HomeAdvisorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	req, err := NormalizeHomeAdvisor(&payload)
	if err != nil {
		h.submitError(w, err, "homeadvisor", payload.RequestID)
		return
	}
	h.submit(w, r, req, "homeadvisor")
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, req *leads.CreateLeadRequest, partner string) {
	lead, err := h.intake.Submit(r.Context(), req)
	if err != nil {
		var ve *leads.ValidationError
		if errors.As(err, &ve) {
			h.logger.Warn("partner lead rejected", "partner", partner, "external_id", req.ExternalID, "error", ve.Error())
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Validation error",
				"details": ve.Details,
			})
			return
		}
		h.logger.Error("partner lead failed", "partner", partner, "external_id", req.ExternalID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Failed to process %s lead", partner)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "leadId": lead.ID})
}

func (h *Handler) submitError(w http.ResponseWriter, err error, partner, externalID string) {
	if errors.Is(err, ErrUnmappedCategory) {
		h.logger.Warn("partner lead rejected", "partner", partner, "external_id", externalID, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Validation error",
			"details": []leads.FieldError{
				{Field: "jobType", Message: err.Error()},
			},
		})
		return
	}
	h.logger.Error("partner lead failed", "partner", partner, "external_id", externalID, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Failed to process %s lead", partner)})
}

// TestAngiLead handles POST /api/test/angi-lead: drives a canned Angi payload
// through the webhook path. Mounted only outside production.
func (h *Handler) TestAngiLead(w http.ResponseWriter, r *http.Request) {
	payload := AngiPayload{LeadID: fmt.Sprintf("test_angi_%d", time.Now().UnixMilli())}
	payload.Customer.FirstName = "John"
	payload.Customer.LastName = "Smith"
	payload.Customer.Email = "john.smith@example.com"
	payload.Customer.Phone = "(555) 123-4567"
	payload.Customer.ZipCode = "12345"
	payload.Project.Category = "kitchen-remodeling"
	payload.Project.Description = "Need complete kitchen renovation with new cabinets and countertops"
	payload.Project.SquareFootage = "300"
	payload.Project.Urgency = "normal"
	payload.Project.Budget = "$25,000-$35,000"

	req, err := NormalizeAngi(&payload)
	if err != nil {
		h.submitError(w, err, "angi", payload.LeadID)
		return
	}
	h.testSubmit(w, r, req, "Test Angi lead created")
}

// TestHomeAdvisorLead handles POST /api/test/homeadvisor-lead.
func (h *Handler) TestHomeAdvisorLead(w http.ResponseWriter, r *http.Request) {
	payload := HomeAdvisorPayload{RequestID: fmt.Sprintf("test_ha_%d", time.Now().UnixMilli())}
	payload.Homeowner.Name = "Sarah Johnson"
	payload.Homeowner.Email = "sarah.johnson@example.com"
	payload.Homeowner.PhoneNumber = "(555) 987-6543"
	payload.Homeowner.ZipCode = "54321"
	payload.Request.ServiceCategory = "bathroom-renovation"
	payload.Request.Details = "Master bathroom remodel including tile work and new fixtures"
	payload.Request.ProjectSize = "120"
	payload.Request.Timeframe = "ASAP"
	payload.Request.BudgetRange = "$15,000-$20,000"

	req, err := NormalizeHomeAdvisor(&payload)
	if err != nil {
		h.submitError(w, err, "homeadvisor", payload.RequestID)
		return
	}
	h.testSubmit(w, r, req, "Test HomeAdvisor lead created")
}

func (h *Handler) testSubmit(w http.ResponseWriter, r *http.Request, req *leads.CreateLeadRequest, message string) {
	lead, err := h.intake.Submit(r.Context(), req)
	if err != nil {
		h.logger.Error("test lead failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create test lead"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message, "lead": lead})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
