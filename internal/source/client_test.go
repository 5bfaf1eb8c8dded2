// File path: internal/source/client_test.go
package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchDecodesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"userId": 1, "id": 10, "title": "A", "body": "x"},
			{"userId": 1, "id": 11, "title": "B", "body": "y"}
		]`))
	}))
	defer server.Close()

	client, err := New(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].UserID != 1 || records[0].ID != 10 || records[0].Title != "A" || records[0].Body != "x" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].ID != 11 {
		t.Errorf("record 1 id = %d, want 11", records[1].ID)
	}
}

func TestFetchRejectsNonSuccessResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch accepted a 502 response")
	}
}

func TestFetchRejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch accepted a non-array payload")
	}
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := New(server.URL, time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	if _, err := client.Fetch(ctx); err == nil {
		t.Fatal("Fetch survived context cancellation")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("  ", time.Second); err == nil {
		t.Error("New accepted blank url")
	}
	if _, err := New("http://localhost", 0); err == nil {
		t.Error("New accepted zero timeout")
	}
}
