package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/healing"
)

func newTestServer(t *testing.T) (*Server, *healing.Engine) {
	t.Helper()
	engine := healing.NewEngine(healing.Options{})
	if err := engine.RegisterStrategy(strategyWithOutcome("db", true)); err != nil {
		t.Fatal(err)
	}
	return NewServer(NewMonitor(engine), engine, 0), engine
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["status"] != string(StatusHealthy) {
		t.Errorf("expected healthy, got %s", body["status"])
	}
}

func TestServer_Strategies(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/strategies", nil))

	var strategies []*domain.RecoveryStrategy
	if err := json.Unmarshal(rec.Body.Bytes(), &strategies); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(strategies) != 1 || strategies[0].ID != "db" {
		t.Errorf("unexpected strategies: %+v", strategies)
	}
}

func TestServer_HistoryFilter(t *testing.T) {
	s, engine := newTestServer(t)
	heal(t, engine, 2)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?strategy=db", nil))

	var records []domain.ActivationRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?strategy=unknown", nil))
	records = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &records)
	if len(records) != 0 {
		t.Errorf("expected no records for unknown strategy, got %d", len(records))
	}
}

func TestServer_DisableThenEnable(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/strategies/db/disable", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("disable: expected 200, got %d", rec.Code)
	}

	// Second disable is an idempotent no-op reported as not found.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/strategies/db/disable", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat disable: expected 404, got %d", rec.Code)
	}

	// Enable only reports presence; the strategy is gone until
	// re-registered with its full definition.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/strategies/db/enable", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("enable after disable: expected 404, got %d", rec.Code)
	}
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics endpoint, got %d", rec.Code)
	}
}
