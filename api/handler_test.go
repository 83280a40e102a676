package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cargoexpress/cargoexpress/cache"
	"github.com/cargoexpress/cargoexpress/dashboard"
	"github.com/cargoexpress/cargoexpress/domain"
	"github.com/cargoexpress/cargoexpress/notify"
	"github.com/cargoexpress/cargoexpress/order"
	"github.com/cargoexpress/cargoexpress/persistence"
	"github.com/cargoexpress/cargoexpress/ratelimit"
)

type testEnv struct {
	e      *echo.Echo
	access *dashboard.Manager
	orders *order.Manager
	repo   *persistence.Repository
	admin  *domain.Admin
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := persistence.Open("sqlite", ":memory:", nil, true)
	if err != nil {
		t.Fatalf("failed to setup repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	admin := &domain.Admin{TelegramID: 900001, Username: "dispatch", IsActive: true}
	if err := repo.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}

	kv := cache.NewMemoryStore()
	sink := notify.NewMemorySink()
	access := dashboard.NewManager(repo, repo, kv, sink, "https://dash.example.com")
	orders := order.NewManager(repo, repo, kv, sink)

	h := NewHandler(access, orders, ratelimit.NewMemoryLimiter())
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/v1"))

	return &testEnv{e: e, access: access, orders: orders, repo: repo, admin: admin}
}

func (env *testEnv) do(t *testing.T, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T) (sessionID, refreshToken string) {
	t.Helper()
	issued, err := env.access.Issue(context.Background(), env.admin.ID, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	token := issued.URL[strings.Index(issued.URL, "token=")+len("token="):]

	rec := env.do(t, http.MethodPost, "/api/v1/dashboard/login", "", map[string]string{
		"token":      token,
		"access_key": issued.AccessKey,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with code %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID    string `json:"session_id"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.SessionID, resp.RefreshToken
}

func TestDashboardLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	sessionID, _ := env.login(t)

	rec := env.do(t, http.MethodGet, "/api/v1/session/me", sessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("whoami failed with code %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "dispatch") {
		t.Errorf("expected admin in whoami response: %s", rec.Body.String())
	}
}

func TestDashboardLoginWrongKey(t *testing.T) {
	env := newTestEnv(t)

	issued, _ := env.access.Issue(context.Background(), env.admin.ID, "")
	token := issued.URL[strings.Index(issued.URL, "token=")+len("token="):]

	rec := env.do(t, http.MethodPost, "/api/v1/dashboard/login", "", map[string]string{
		"token":      token,
		"access_key": "WRONGKEY",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access key does not match") {
		t.Errorf("expected key mismatch message: %s", rec.Body.String())
	}

	// The mismatch did not consume the token.
	rec = env.do(t, http.MethodPost, "/api/v1/dashboard/login", "", map[string]string{
		"token":      token,
		"access_key": issued.AccessKey,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("correct key should still log in, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardLoginSingleUse(t *testing.T) {
	env := newTestEnv(t)

	issued, _ := env.access.Issue(context.Background(), env.admin.ID, "")
	token := issued.URL[strings.Index(issued.URL, "token=")+len("token="):]
	body := map[string]string{"token": token, "access_key": issued.AccessKey}

	if rec := env.do(t, http.MethodPost, "/api/v1/dashboard/login", "", body); rec.Code != http.StatusOK {
		t.Fatalf("first login failed: %d", rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/v1/dashboard/login", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("second login must be refused, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already used") {
		t.Errorf("expected already-used message: %s", rec.Body.String())
	}
}

func TestSessionRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)

	sessionID, refreshToken := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/session/refresh", "", map[string]string{
		"refresh_token": refreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	var rotated struct {
		SessionID string `json:"session_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &rotated)

	// The pre-rotation session is retired.
	if rec := env.do(t, http.MethodGet, "/api/v1/session/me", sessionID, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("rotated-out session should be refused, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/session/logout", rotated.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/session/me", rotated.SessionID, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("logged-out session should be refused, got %d", rec.Code)
	}
}

func TestOrderEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := &domain.User{TelegramID: 900100, Username: "customer"}
	if err := env.repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	o, err := env.orders.Create(ctx, domain.OrderSpec{
		Kind:        domain.KindShipping,
		UserID:      user.ID,
		WeightGrams: 5000,
		TotalCost:   1000,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	sessionID, _ := env.login(t)
	base := fmt.Sprintf("/api/v1/orders/shipping/%d", o.ID)

	// Unauthenticated reads are refused.
	if rec := env.do(t, http.MethodGet, base, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, base, sessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get order failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, base+"/status", sessionID, map[string]string{
		"status":  "PAID",
		"comment": "paid by card",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("transition failed: %d %s", rec.Code, rec.Body.String())
	}

	updated, _ := env.orders.Get(ctx, domain.KindShipping, o.ID)
	if updated.Status != domain.StatusPaid {
		t.Errorf("expected PAID, got %s", updated.Status)
	}
	if len(updated.History) != 2 {
		t.Errorf("expected 2 history rows, got %d", len(updated.History))
	}
	last := updated.History[len(updated.History)-1]
	if last.AdminID == nil || *last.AdminID != env.admin.ID {
		t.Errorf("expected acting admin recorded, got %v", last.AdminID)
	}

	rec = env.do(t, http.MethodPost, base+"/tracking", sessionID, map[string]string{
		"tracking": "RR123456789DE",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("tracking failed: %d %s", rec.Code, rec.Body.String())
	}

	// Unknown orders and malformed kinds map to 404 / 400.
	if rec := env.do(t, http.MethodGet, "/api/v1/orders/shipping/99999", sessionID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/orders/freight/1", sessionID, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad kind, got %d", rec.Code)
	}
}
