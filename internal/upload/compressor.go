package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	_ "image/gif"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	"pasteleria-backend/pkg/models"
)

const (
	// DefaultMaxWidth caps the longest edge of re-encoded images
	DefaultMaxWidth = 1600
	// DefaultQuality is the JPEG quality factor for lossy re-encoding
	DefaultQuality = 82
	// DefaultSizeThreshold is the size at or below which files pass through unchanged
	DefaultSizeThreshold = 3 << 20 // 3 MiB
)

// Compressor resizes and re-encodes oversized raster images before upload.
// Non-images, HEIC/HEIF files and files at or below the size threshold pass
// through unchanged.
type Compressor struct {
	MaxWidth      uint
	Quality       int
	SizeThreshold int
}

// NewCompressor creates a compressor with the production policy constants
func NewCompressor() *Compressor {
	return &Compressor{
		MaxWidth:      DefaultMaxWidth,
		Quality:       DefaultQuality,
		SizeThreshold: DefaultSizeThreshold,
	}
}

// Compress applies the compression policy to a single file. The first
// matching passthrough rule wins; otherwise the image is decoded, scaled
// down to the width cap preserving aspect ratio, and re-encoded (PNG stays
// PNG, everything else becomes JPEG). A failure aborts only this file.
func (c *Compressor) Compress(f models.MediaUpload) (models.MediaUpload, error) {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return f, nil
	}
	// HEIC cannot be rasterized here; the media host transcodes it when serving
	if isHeic(f) {
		return f, nil
	}
	if len(f.Data) <= c.SizeThreshold {
		return f, nil
	}

	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return models.MediaUpload{}, fmt.Errorf("failed to decode %s: %w", f.Name, err)
	}

	width := uint(img.Bounds().Dx())
	targetW := c.MaxWidth
	if width < targetW {
		targetW = width
	}
	scaled := resize.Resize(targetW, 0, img, resize.Lanczos3)

	var (
		buf     bytes.Buffer
		outMime string
		outExt  string
	)
	if f.ContentType == "image/png" {
		outMime, outExt = "image/png", ".png"
		err = png.Encode(&buf, scaled)
	} else {
		outMime, outExt = "image/jpeg", ".jpg"
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: c.Quality})
	}
	if err != nil {
		return models.MediaUpload{}, fmt.Errorf("failed to re-encode %s: %w", f.Name, err)
	}

	return models.MediaUpload{
		Name:        baseName(f.Name) + outExt,
		ContentType: outMime,
		Data:        buf.Bytes(),
	}, nil
}

// isHeic matches the high-efficiency photo formats by MIME type or extension
func isHeic(f models.MediaUpload) bool {
	ct := strings.ToLower(f.ContentType)
	if strings.Contains(ct, "heic") || strings.Contains(ct, "heif") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	return ext == ".heic" || ext == ".heif"
}

func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
