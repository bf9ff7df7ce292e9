package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/acestone/renovation-leads/pkg/logging"
)

func newTestHandler() (*Handler, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, logging.New("error"))
	return NewHandler(svc, logging.New("error")), repo
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/leads", h.Create)
	r.Get("/api/leads", h.List)
	r.Get("/api/leads/stats", h.GetStats)
	r.Patch("/api/leads/{id}/status", h.UpdateStatus)
	return r
}

func TestHandler_CreateSuccess(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	body, _ := json.Marshal(validRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var lead Lead
	if err := json.NewDecoder(w.Body).Decode(&lead); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if lead.ID == "" || lead.Status != StatusNew {
		t.Errorf("unexpected lead: %+v", lead)
	}
}

func TestHandler_CreateValidationListsEveryField(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	payload := `{"fullName":"","email":"nope","phone":"5551234567","jobType":"kitchen","squareFootage":100,"urgency":"normal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(payload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Error   string       `json:"error"`
		Details []FieldError `json:"details"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "Validation error" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
	fields := make(map[string]bool)
	for _, d := range resp.Details {
		fields[d.Field] = true
	}
	if !fields["fullName"] || !fields["email"] {
		t.Errorf("expected both fullName and email failures, got %v", resp.Details)
	}
}

func TestHandler_CreateMalformedJSON(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandler_ListNewestFirst(t *testing.T) {
	h, repo := newTestHandler()
	r := newTestRouter(h)

	for i := 0; i < 2; i++ {
		if _, err := repo.Create(context.Background(), validRequest()); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var all []Lead
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 leads, got %d", len(all))
	}
}

func TestHandler_StatsEmpty(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	h, repo := newTestHandler()
	r := newTestRouter(h)

	lead, err := repo.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/leads/"+lead.ID+"/status", strings.NewReader(`{"status":"contacted"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated Lead
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusContacted {
		t.Errorf("expected contacted, got %s", updated.Status)
	}
}

func TestHandler_UpdateStatusUnknownID(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPatch, "/api/leads/nope/status", strings.NewReader(`{"status":"contacted"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestHandler_UpdateStatusInvalidValue(t *testing.T) {
	h, repo := newTestHandler()
	r := newTestRouter(h)

	lead, err := repo.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/leads/"+lead.ID+"/status", strings.NewReader(`{"status":"archived"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", w.Code)
	}
}
