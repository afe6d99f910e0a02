package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// mockStore implements DeliveryStore for testing
type mockStore struct {
	marked []Key
	err    error
}

func (m *mockStore) MarkDelivered(feedURL, entryID string) error {
	if m.err != nil {
		return m.err
	}
	m.marked = append(m.marked, Key{FeedURL: feedURL, EntryID: entryID})
	return nil
}

func testKey() Key {
	return Key{FeedURL: "https://example.com/feed.xml", EntryID: "entry-1"}
}

func TestDeliverPostsToAllWebhooks(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected content type 'application/json', got: %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
	})

	first := httptest.NewServer(handler)
	defer first.Close()
	second := httptest.NewServer(handler)
	defer second.Close()

	store := &mockStore{}
	notifier := NewNotifier(nil, []string{first.URL, second.URL}, store, false)

	err := notifier.Deliver(context.Background(), testKey(), Payload{Title: "hello"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("Expected 2 webhook calls, got: %d", len(bodies))
	}
	if len(store.marked) != 2 {
		t.Errorf("Expected entry marked once per successful webhook, got: %d", len(store.marked))
	}
}

func TestDeliverPartialFailure(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	}))
	defer failing.Close()

	store := &mockStore{}
	notifier := NewNotifier(nil, []string{ok.URL, failing.URL}, store, false)

	err := notifier.Deliver(context.Background(), testKey(), Payload{Title: "hello"})
	if err != nil {
		t.Fatalf("Expected webhook failure to be absorbed, got: %v", err)
	}

	// The first webhook succeeded, so the entry stays marked delivered even
	// though the second webhook failed
	if len(store.marked) != 1 {
		t.Errorf("Expected entry marked once, got: %d", len(store.marked))
	}
}

func TestDeliverAllWebhooksFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer failing.Close()

	store := &mockStore{}
	notifier := NewNotifier(nil, []string{failing.URL}, store, false)

	err := notifier.Deliver(context.Background(), testKey(), Payload{Title: "hello"})
	if err != nil {
		t.Fatalf("Expected webhook failure to be absorbed, got: %v", err)
	}

	if len(store.marked) != 0 {
		t.Errorf("Expected entry to stay unmarked so the next poll retries it, got %d marks", len(store.marked))
	}
}

func TestDeliverDryRun(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	store := &mockStore{}
	notifier := NewNotifier(nil, []string{server.URL}, store, true)

	err := notifier.Deliver(context.Background(), testKey(), Payload{Title: "hello"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if calls != 0 {
		t.Errorf("Expected no webhook calls in dry run, got: %d", calls)
	}
	if len(store.marked) != 0 {
		t.Errorf("Expected nothing marked in dry run, got: %d", len(store.marked))
	}
}

func TestDeliverStoreFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := &mockStore{err: errors.New("disk full")}
	notifier := NewNotifier(nil, []string{server.URL}, store, false)

	err := notifier.Deliver(context.Background(), testKey(), Payload{Title: "hello"})
	if err == nil {
		t.Fatal("Expected store failure to surface")
	}
}
