package site

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pasteleria-backend/internal/gallery"
)

// Handler handles site information HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler instance
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers site routes with the Echo instance
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/site/branches", h.GetBranches)
	e.GET("/site/branches/:id/inquiry", h.GetInquiryLink)
}

// GetBranches handles GET /site/branches
func (h *Handler) GetBranches(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"branches": h.service.Branches(),
	})
}

// GetInquiryLink handles GET /site/branches/:id/inquiry
// Query parameter: item (gallery item id)
func (h *Handler) GetInquiryLink(c echo.Context) error {
	itemID := c.QueryParam("item")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "item is required",
		})
	}

	link, err := h.service.InquiryLink(c.Param("id"), itemID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBranchNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "Branch not found",
			})
		case errors.Is(err, gallery.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "Item not found",
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "An unexpected error occurred. Please try again.",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"link": link,
	})
}
