package upload

import (
	"context"

	"pasteleria-backend/internal/gallery"
	"pasteleria-backend/pkg/models"
)

// MediaHost defines the media host operations the upload pipeline needs
type MediaHost interface {
	Configured() error
	Upload(ctx context.Context, up *models.MediaUpload, opts *models.MediaUploadOptions) (*models.MediaAsset, error)
}

// GalleryStore persists one metadata document per successful upload
type GalleryStore interface {
	AddItem(ctx context.Context, item gallery.NewItem) (*models.PhotoItem, error)
}
