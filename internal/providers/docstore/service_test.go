package docstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestService(baseURL string) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		apiKey:     "test-key",
	}
}

func TestService_ListDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/v1/collections/gallery/documents" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"documents": []map[string]any{
				{"id": "d1", "fields": map[string]any{"title": "Torta"}},
				{"id": "d2", "fields": map[string]any{"title": "Brownie"}},
			},
		})
	}))
	defer server.Close()

	s := newTestService(server.URL)
	docs, err := s.ListDocuments(context.Background(), "gallery")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "d1" || docs[0].Fields["title"] != "Torta" {
		t.Errorf("Unexpected first document: %+v", docs[0])
	}
}

func TestService_AddDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected JSON content type, got %q", got)
		}

		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Fatalf("Failed to decode payload: %v", err)
		}
		if fields["title"] != "Torta" {
			t.Errorf("Unexpected payload: %+v", fields)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "d3"})
	}))
	defer server.Close()

	s := newTestService(server.URL)
	id, err := s.AddDocument(context.Background(), "gallery", map[string]any{"title": "Torta"})
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if id != "d3" {
		t.Errorf("Expected id d3, got %q", id)
	}
}

func TestService_UpdateDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("Expected PATCH request, got %s", r.Method)
		}
		if r.URL.Path != "/v1/collections/gallery/documents/d1" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	if err := s.UpdateDocument(context.Background(), "gallery", "d1", map[string]any{"category": "tortas"}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
}

func TestService_DeleteDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("Expected DELETE request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	if err := s.DeleteDocument(context.Background(), "gallery", "d1"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
}

func TestService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "permission denied"})
	}))
	defer server.Close()

	s := newTestService(server.URL)
	_, err := s.ListDocuments(context.Background(), "gallery")
	if err == nil {
		t.Fatal("Expected an error for a rejected request")
	}
	if got := err.Error(); got != "document store error (status 403): permission denied" {
		t.Errorf("Unexpected error message: %s", got)
	}
}

func TestService_Unconfigured(t *testing.T) {
	s := newTestService("")
	if _, err := s.ListDocuments(context.Background(), "gallery"); err != ErrMissingConfig {
		t.Errorf("Expected ErrMissingConfig, got %v", err)
	}
}

func TestService_EscapesPathSegments(t *testing.T) {
	var seenPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	if err := s.DeleteDocument(context.Background(), "gallery", "a/b"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if seenPath != "/v1/collections/gallery/documents/a%2Fb" {
		t.Errorf("Expected escaped document id in path, got %s", seenPath)
	}
}
