package thumbnail

import (
	"context"
	"io"

	"pasteleria-backend/pkg/models"
)

// Provider builds delivery URLs and streams images from the media host
type Provider interface {
	TransformURL(imageURL, publicID string, height int) string
	FetchImage(ctx context.Context, url string) (io.ReadCloser, string, error)
}

// Gallery resolves gallery items by id
type Gallery interface {
	Item(id string) (*models.PhotoItem, error)
}
