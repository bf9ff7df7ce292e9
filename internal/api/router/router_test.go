package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acestone/renovation-leads/internal/auth"
	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/internal/partners"
	"github.com/acestone/renovation-leads/internal/uploads"
	"github.com/acestone/renovation-leads/pkg/logging"
)

const testJWTSecret = "router-test-secret"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.New("error")

	leadsRepo := leads.NewInMemoryRepository()
	intake := leads.NewService(leadsRepo, nil, nil, logger)

	userRepo := auth.NewInMemoryUserRepository()
	if err := auth.SeedAdmin(context.Background(), userRepo, "admin", "admin123", logger); err != nil {
		t.Fatal(err)
	}
	authSvc := auth.NewService(userRepo, testJWTSecret, nil, logger)

	return New(&Config{
		Logger:          logger,
		LeadsHandler:    leads.NewHandler(intake, logger),
		AuthHandler:     auth.NewHandler(authSvc, logger),
		PartnersHandler: partners.NewHandler(intake, logger),
		UploadsHandler:  uploads.NewHandler(uploads.NewMemoryStore(), logger),
		AdminJWTSecret:  testJWTSecret,
	})
}

func login(t *testing.T, srv http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/leads"},
		{http.MethodGet, "/api/leads/stats"},
		{http.MethodPatch, "/api/leads/abc/status"},
	} {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader(`{"status":"contacted"}`))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", route.method, route.path, w.Code)
		}
	}
}

func TestSubmitThenManageLead(t *testing.T) {
	srv := newTestServer(t)

	// Public submission needs no token.
	submitBody := `{"fullName":"John Smith","email":"john.smith@example.com","phone":"5551234567","jobType":"kitchen","squareFootage":100,"urgency":"normal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(submitBody))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var created leads.Lead
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Quote != 20000 {
		t.Errorf("quote = %v, want 20000", created.Quote)
	}

	token := login(t, srv)

	// Admin list shows the lead.
	req = httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var all []leads.Lead
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != created.ID {
		t.Fatalf("unexpected lead list: %+v", all)
	}

	// Close the job out.
	req = httptest.NewRequest(http.MethodPatch, "/api/leads/"+created.ID+"/status", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated leads.Lead
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatal(err)
	}
	if updated.Status != leads.StatusCompleted {
		t.Errorf("status = %q", updated.Status)
	}

	// Stats count the completed quote as revenue.
	req = httptest.NewRequest(http.MethodGet, "/api/leads/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", w.Code)
	}
	var stats leads.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalLeads != 1 || stats.NewLeads != 1 || stats.TotalRevenue != 20000 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestWebhookRoutesMounted(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"leadId":"angi_1","customer":{"firstName":"John","lastName":"Smith","email":"john.smith@example.com","phone":"5551234567","zipCode":"12345"},"project":{"category":"kitchen-remodeling","squareFootage":"300","urgency":"normal"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/angi", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("angi webhook: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTestRoutesOffByDefault(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/test/angi-lead", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code == http.StatusOK {
		t.Error("test routes should not be mounted by default")
	}
}

func TestRateLimitOnPublicSurface(t *testing.T) {
	logger := logging.New("error")
	leadsRepo := leads.NewInMemoryRepository()
	intake := leads.NewService(leadsRepo, nil, nil, logger)
	userRepo := auth.NewInMemoryUserRepository()
	authSvc := auth.NewService(userRepo, testJWTSecret, nil, logger)

	srv := New(&Config{
		LeadsHandler:    leads.NewHandler(intake, logger),
		AuthHandler:     auth.NewHandler(authSvc, logger),
		AdminJWTSecret:  testJWTSecret,
		IntakeRateLimit: 0.001,
		IntakeRateBurst: 1,
	})

	body := `{"fullName":"John Smith","email":"john.smith@example.com","phone":"5551234567","jobType":"kitchen","squareFootage":100,"urgency":"normal"}`
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
		req.RemoteAddr = "10.1.1.1:5000"
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
}
