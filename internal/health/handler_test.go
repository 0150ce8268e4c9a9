package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tobi-oke/clipchat-backend/internal/session"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

type stubModel struct {
	available bool
}

func (m *stubModel) Generate(ctx context.Context, payload *vision.Payload) (string, error) {
	return "", nil
}

func (m *stubModel) IsAvailable(ctx context.Context) bool {
	return m.available
}

func newTestHealth(t *testing.T, available bool) *Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	model := &stubModel{available: available}
	manager := session.NewManager(nil, nil, model, nil, nil, nil)
	return NewHandler(client, model, "test-model", manager, "test")
}

func serve(h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(e.NewContext(req, rec))
	return rec
}

func TestBanner(t *testing.T) {
	h := newTestHealth(t, true)

	rec := serve(h.Banner, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp BannerResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Service != "clipchat-backend" || resp.Model != "test-model" {
		t.Errorf("unexpected banner %+v", resp)
	}
}

func TestLiveness(t *testing.T) {
	h := newTestHealth(t, false)

	rec := serve(h.Liveness, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	h := newTestHealth(t, true)

	rec := serve(h.Readiness, "/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
	if resp.Components["redis"].Status != StatusHealthy || resp.Components["model"].Status != StatusHealthy {
		t.Errorf("unexpected components %+v", resp.Components)
	}
}

func TestReadiness_ModelDown(t *testing.T) {
	h := newTestHealth(t, false)

	rec := serve(h.Readiness, "/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded service should still report 200, got %d", rec.Code)
	}

	var resp HealthResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", resp.Status)
	}
}
