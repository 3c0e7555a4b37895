package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

func okChecker(name string) *CheckerFunc {
	return NewCheckerFunc(name, func(context.Context) error { return nil })
}

func failingChecker(name, message string) *CheckerFunc {
	return NewCheckerFunc(name, func(context.Context) error { return errors.New(message) })
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubStats struct {
	stats domain.OutboxStats
	err   error
}

func (s stubStats) Stats(context.Context) (domain.OutboxStats, error) { return s.stats, s.err }

func TestHealthHandler(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewStorageChecker("storage", stubPinger{}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", response.Status)
	}
	if response.Version != "v1.0.0" {
		t.Errorf("expected version v1.0.0, got %s", response.Version)
	}
	if len(response.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(response.Checks))
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewStorageChecker("storage", stubPinger{err: errors.New("connection refused")}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusUnhealthy {
		t.Errorf("expected status unhealthy, got %s", response.Status)
	}
	if response.Checks["storage"].Message != "connection refused" {
		t.Errorf("unexpected check message: %+v", response.Checks["storage"])
	}
}

func TestHealthHandler_DegradedKeepsOK(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", okChecker("storage"))
	handler.RegisterChecker("outbox", NewOutboxBacklogChecker(stubStats{stats: domain.OutboxStats{
		PendingCount:    3,
		OldestPendingAt: time.Now().Add(-time.Hour),
	}}, time.Minute))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("degraded must not return 503, got %d", w.Code)
	}
	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusDegraded {
		t.Fatalf("expected degraded, got %s", response.Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %s", w.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	cases := []struct {
		name     string
		checker  Checker
		wantCode int
		wantBody string
	}{
		{name: "ready", checker: okChecker("storage"), wantCode: http.StatusOK, wantBody: "ready"},
		{name: "not ready", checker: failingChecker("storage", "down"), wantCode: http.StatusServiceUnavailable, wantBody: "not ready"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler("v1.0.0")
			handler.RegisterChecker("storage", tc.checker)

			w := httptest.NewRecorder()
			handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tc.wantCode {
				t.Errorf("expected status %d, got %d", tc.wantCode, w.Code)
			}
			if w.Body.String() != tc.wantBody {
				t.Errorf("expected body %q, got %q", tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestCheckerFunc_ReceivesDeadline(t *testing.T) {
	var hasDeadline bool
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("probe", NewCheckerFunc("probe", func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}))

	handler.Run(context.Background())
	if !hasDeadline {
		t.Fatal("checker context must carry the handler timeout")
	}
}

func TestOutboxBacklogChecker(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		stats stubStats
		want  Status
	}{
		{name: "empty", stats: stubStats{}, want: StatusHealthy},
		{name: "fresh", stats: stubStats{stats: domain.OutboxStats{PendingCount: 1, OldestPendingAt: now.Add(-10 * time.Second)}}, want: StatusHealthy},
		{name: "stale", stats: stubStats{stats: domain.OutboxStats{PendingCount: 5, OldestPendingAt: now.Add(-10 * time.Minute)}}, want: StatusDegraded},
		{name: "error", stats: stubStats{err: errors.New("db down")}, want: StatusUnhealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewOutboxBacklogChecker(tc.stats, time.Minute)
			checker.now = func() time.Time { return now }
			if got := checker.Check(context.Background()).Status; got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
