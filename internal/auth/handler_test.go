package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acestone/renovation-leads/pkg/logging"
)

func newLoginHandler(t *testing.T) *Handler {
	t.Helper()
	repo := NewInMemoryUserRepository()
	if err := SeedAdmin(context.Background(), repo, "admin", "admin123", logging.New("error")); err != nil {
		t.Fatal(err)
	}
	svc := NewService(repo, testSecret, nil, logging.New("error"))
	return NewHandler(svc, logging.New("error"))
}

func TestLoginHandlerSuccess(t *testing.T) {
	h := newLoginHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Authentication successful" || resp.Token == "" || resp.User.Username != "admin" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	h := newLoginHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Invalid credentials" {
		t.Errorf("unexpected error body: %v", resp)
	}
}

func TestLoginHandlerMalformedBody(t *testing.T) {
	h := newLoginHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
