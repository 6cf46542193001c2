package gallery

import (
	"context"

	"pasteleria-backend/internal/providers/docstore"
)

// DocumentStore defines the document store operations the gallery needs
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string) ([]docstore.Document, error)
	AddDocument(ctx context.Context, collection string, fields map[string]any) (string, error)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
	DeleteDocument(ctx context.Context, collection, id string) error
}

// MediaHost defines the media host operations used by the delete flow
type MediaHost interface {
	DeleteByToken(ctx context.Context, token string) error
	DeleteByPublicID(ctx context.Context, publicID string) error
	HasDeleteProxy() bool
}
