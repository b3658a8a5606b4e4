package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/wedsite-backend/internal/approvals"
	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/internal/invitations"
	"github.com/angelmondragon/wedsite-backend/internal/notifications"
	"github.com/angelmondragon/wedsite-backend/internal/venues"
	pkgAuth "github.com/angelmondragon/wedsite-backend/pkg/auth"
	"github.com/angelmondragon/wedsite-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type fakeRedis struct {
	mu     sync.Mutex
	data   map[string]string
	counts map[string]int64
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeRedis) IdempotencyKey(scope, id string) string {
	return "wedsite:idempotency:" + scope + ":" + id
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func (f *fakeRedis) Ping(context.Context) error {
	return nil
}

type stubInvitations struct {
	invitations.Service
}

func (stubInvitations) List(_ context.Context, _ uuid.UUID, _ pagination.Params) (*pagination.Page[invitations.InvitationDTO], error) {
	return &pagination.Page[invitations.InvitationDTO]{Items: []invitations.InvitationDTO{}}, nil
}

func (stubInvitations) GetPublic(_ context.Context, slug, _ string) (*invitations.PublicInvitationDTO, error) {
	if slug != "ana-and-ben" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}
	return &invitations.PublicInvitationDTO{Slug: slug, IsPublished: true}, nil
}

type stubApprovals struct {
	approvals.Service
	mu       sync.Mutex
	requests int
}

func (s *stubApprovals) RequestApproval(_ context.Context, _ uuid.UUID, invitationID uuid.UUID) (*approvals.RequestApprovalResult, error) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
	return &approvals.RequestApprovalResult{InvitationID: invitationID, ApprovalToken: uuid.NewString()}, nil
}

func (s *stubApprovals) Approve(context.Context, string) (*approvals.ApproveResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid or expired approval token")
}

func (s *stubApprovals) SendUpdatesReady(context.Context, uuid.UUID, uuid.UUID, *changes.Summary) (*approvals.UpdatesReadyResult, error) {
	return &approvals.UpdatesReadyResult{}, nil
}

type stubEmailLog struct{}

func (stubEmailLog) List(context.Context, notifications.ListParams) (*pagination.Page[notifications.EmailLogEntry], error) {
	return &pagination.Page[notifications.EmailLogEntry]{}, nil
}

type stubVenues struct {
	venues.Service
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", PublicBaseURL: "https://invites.example.com"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "wedsite-identity"},
		RateLimit: config.RateLimitConfig{
			PublicWindow:     time.Minute,
			PublicIPLimit:    100,
			PublicTokenLimit: 2,
		},
	}
}

type testRouter struct {
	handler   http.Handler
	approvals *stubApprovals
	registry  *metrics.Registry
}

func newTestRouter(cfg *config.Config) testRouter {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := metrics.NewRegistry()
	approvalSvc := &stubApprovals{}
	handler := NewRouter(
		cfg,
		logg,
		registry,
		stubPinger{},
		newFakeRedis(),
		nil,
		stubInvitations{},
		approvalSvc,
		stubEmailLog{},
		stubVenues{},
		nil,
	)
	return testRouter{handler: handler, approvals: approvalSvc, registry: registry}
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintPlannerToken(cfg.JWT, time.Now(), time.Hour, pkgAuth.PlannerTokenPayload{
		PlannerID: uuid.New(),
		Email:     "planner@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestPlannerRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/invitations", "/api/v1/venues/autocomplete?input=rose"} {
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", path, resp.Code)
		}
	}
}

func TestPlannerRoutesSucceedWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invitations", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestPublicInvitationNeedsNoJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/public/invitations/ana-and-ben", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/public/invitations/unknown", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestPublicApproveIsRateLimitedPerToken(t *testing.T) {
	router := newTestRouter(testConfig())

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/public/approvals/approve", strings.NewReader(`{"approvalToken":"guess"}`))
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusNotFound || codes[1] != http.StatusNotFound || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRequestApprovalReplaysWithIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)
	body := `{"invitationId":"` + uuid.NewString() + `"}`

	var first string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/request", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "req-1")
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
		if i == 0 {
			first = resp.Body.String()
		} else if resp.Body.String() != first {
			t.Fatalf("expected replayed body")
		}
	}
	if router.approvals.requests != 1 {
		t.Fatalf("expected one approval request, got %d", router.approvals.requests)
	}
}

func TestStationeryUnavailableWithoutStorage(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invitations/"+id+"/stationery/presign", strings.NewReader(`{"fileName":"a.png","mimeType":"image/png","sizeBytes":1}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestMetricsEndpointRecordsRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	router.handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/public/invitations/ana-and-ben", nil))

	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `route="/api/public/invitations/{slug}"`) {
		t.Fatalf("expected route pattern label in metrics output")
	}
}
