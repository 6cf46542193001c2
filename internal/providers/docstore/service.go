package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Document is a loosely-typed record from a remote collection.
// Field parsing into typed models happens at the consumer's boundary.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Service is an HTTP client for the remote collection-oriented document store
type Service struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewService creates a new document store service from environment configuration
func NewService() *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    os.Getenv("DOCSTORE_BASE_URL"),
		apiKey:     os.Getenv("DOCSTORE_API_KEY"),
	}
}

// ListDocuments fetches every document in a collection.
// The store offers no server-side filtering; consumers filter in memory.
func (s *Service) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var listed struct {
		Documents []Document `json:"documents"`
	}
	if err := s.call(ctx, "GET", s.collectionPath(collection), nil, &listed); err != nil {
		return nil, err
	}
	return listed.Documents, nil
}

// AddDocument creates a document and returns the store-assigned id
func (s *Service) AddDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := s.call(ctx, "POST", s.collectionPath(collection), fields, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateDocument merges the given fields into an existing document
func (s *Service) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.call(ctx, "PATCH", s.documentPath(collection, id), fields, nil)
}

// DeleteDocument removes a document
func (s *Service) DeleteDocument(ctx context.Context, collection, id string) error {
	return s.call(ctx, "DELETE", s.documentPath(collection, id), nil, nil)
}

func (s *Service) collectionPath(collection string) string {
	return fmt.Sprintf("%s/v1/collections/%s/documents", s.baseURL, url.PathEscape(collection))
}

func (s *Service) documentPath(collection, id string) string {
	return fmt.Sprintf("%s/%s", s.collectionPath(collection), url.PathEscape(id))
}

// call is a generic helper for JSON requests against the document store
func (s *Service) call(ctx context.Context, method, endpoint string, payload any, result any) error {
	if s.baseURL == "" {
		return ErrMissingConfig
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return s.handleAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// handleAPIError extracts a useful message from a non-2xx store response
func (s *Service) handleAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("document store error (status %d): %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("document store request failed with status: %d", resp.StatusCode)
}
