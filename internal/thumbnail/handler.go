package thumbnail

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultHeight = 420
	maxHeight     = 1600
)

// Handler proxies downscaled gallery images from the media host so the
// frontend never sees full-resolution originals in the grid.
type Handler struct {
	gallery Gallery
	media   Provider
}

func NewHandler(gallery Gallery, media Provider) *Handler {
	return &Handler{
		gallery: gallery,
		media:   media,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/thumbnail", h.handleThumbnailProxy)
}

func (h *Handler) handleThumbnailProxy(c echo.Context) error {
	itemID := c.QueryParam("item")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "item is required",
		})
	}

	height := defaultHeight
	if hv := c.QueryParam("h"); hv != "" {
		n, err := strconv.Atoi(hv)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "h must be a positive integer",
			})
		}
		if n > maxHeight {
			n = maxHeight
		}
		height = n
	}

	item, err := h.gallery.Item(itemID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Item not found",
		})
	}

	url := h.media.TransformURL(item.ImageURL, item.PublicID, height)

	stream, contentType, err := h.media.FetchImage(c.Request().Context(), url)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": fmt.Sprintf("failed to fetch thumbnail: %v", err),
		})
	}
	defer stream.Close()

	// Cache for 1 hour
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	c.Response().Header().Set("Content-Type", contentType)
	c.Response().WriteHeader(http.StatusOK)

	_, err = io.Copy(c.Response().Writer, stream)
	return err
}
