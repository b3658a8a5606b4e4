package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/wedsite-backend/pkg/auth"
	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/google/uuid"
)

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer"}
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer"}
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsForeignIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer"}
	token := mintTestToken(t, config.JWTConfig{Secret: "secret", Issuer: "someone-else"}, uuid.New())
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer"}
	plannerID := uuid.New()
	token := mintTestToken(t, cfg, plannerID)

	var captured struct {
		planner string
		email   string
		parsed  uuid.UUID
		ok      bool
	}
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.planner = PlannerIDFromContext(r.Context())
		captured.email = PlannerEmailFromContext(r.Context())
		captured.parsed, captured.ok = PlannerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.planner != plannerID.String() {
		t.Fatalf("expected planner %s got %s", plannerID, captured.planner)
	}
	if captured.email != "planner@example.com" {
		t.Fatalf("unexpected email %q", captured.email)
	}
	if !captured.ok || captured.parsed != plannerID {
		t.Fatalf("expected parsed planner id, got %s", captured.parsed)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, plannerID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintPlannerToken(cfg, time.Now(), time.Hour, auth.PlannerTokenPayload{
		PlannerID: plannerID,
		Email:     "planner@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
