package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockStatsStore implements StatsStore for testing
type mockStatsStore struct {
	pingErr error
	seen    int
	feeds   int
}

func (m *mockStatsStore) Ping() error             { return m.pingErr }
func (m *mockStatsStore) CountSeen() (int, error) { return m.seen, nil }
func (m *mockStatsStore) CountFeeds() (int, error) {
	return m.feeds, nil
}

func TestHealthCheck(t *testing.T) {
	handler := NewHandler(&mockStatsStore{}, 2, 1, "test")
	server := NewServer(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got: %v", body["status"])
	}
}

func TestHealthCheckStoreUnreachable(t *testing.T) {
	handler := NewHandler(&mockStatsStore{pingErr: errors.New("closed")}, 2, 1, "test")
	server := NewServer(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got: %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	handler := NewHandler(&mockStatsStore{seen: 42, feeds: 2}, 3, 2, "test")
	server := NewServer(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", w.Code)
	}

	var body map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["seen_entries"] != 42 {
		t.Errorf("Expected 42 seen entries, got: %v", body["seen_entries"])
	}
	if body["configured_feeds"] != 3 {
		t.Errorf("Expected 3 configured feeds, got: %v", body["configured_feeds"])
	}
	if body["configured_webhooks"] != 2 {
		t.Errorf("Expected 2 configured webhooks, got: %v", body["configured_webhooks"])
	}
	if body["seeded_feeds"] != 2 {
		t.Errorf("Expected 2 seeded feeds, got: %v", body["seeded_feeds"])
	}
}
