package gallery

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"pasteleria-backend/pkg/models"
)

// Handler handles HTTP requests for the public gallery and the admin
// edit/delete flows
type Handler struct {
	service      *Service
	sessionStore models.SessionStore
}

// NewHandler creates a new gallery handler
func NewHandler(service *Service, sessionStore models.SessionStore) *Handler {
	return &Handler{
		service:      service,
		sessionStore: sessionStore,
	}
}

// RegisterRoutes registers gallery routes with the Echo instance
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/gallery/items", h.GetItems)
	e.GET("/gallery/tags", h.GetTags)
	e.GET("/gallery/categories", h.GetCategories)
	e.POST("/gallery/categories", h.CreateCategory)
	e.PUT("/gallery/items/:id", h.UpdateItem)
	e.DELETE("/gallery/items/:id", h.DeleteItem)
	e.POST("/gallery/refresh", h.Refresh)
}

// GetItems handles GET /gallery/items
// It computes the filtered, sorted and paginated view over the snapshot.
// Query parameters: categoria (default "todas"; an explicitly empty value
// selects items with no category), etiquetas (comma-joined normalized keys),
// q (free text), orden (reciente|antiguo|titulo), visible (pagination cursor).
func (h *Handler) GetItems(c echo.Context) error {
	state := FilterState{
		Category: CategoryAll,
		SortBy:   SortRecent,
	}

	if cat, ok := queryParamPresent(c, "categoria"); ok {
		state.Category = cat
	}
	if tags := c.QueryParam("etiquetas"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if n := NormalizeTag(t); n != "" {
				state.Tags = append(state.Tags, n)
			}
		}
	}
	state.Query = c.QueryParam("q")
	switch SortBy(c.QueryParam("orden")) {
	case SortOldest:
		state.SortBy = SortOldest
	case SortTitle:
		state.SortBy = SortTitle
	}
	if v := c.QueryParam("visible"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "visible must be a non-negative integer",
			})
		}
		state.Visible = n
	}

	view := h.service.View(state)
	return c.JSON(http.StatusOK, ItemsResponse{
		Items:       view.Items,
		Total:       view.Total,
		Visible:     view.Visible,
		HasMore:     view.HasMore,
		NextVisible: LoadMore(view.Visible, DefaultPageSize, view.Total),
	})
}

// GetTags handles GET /gallery/tags
func (h *Handler) GetTags(c echo.Context) error {
	return c.JSON(http.StatusOK, TagsResponse{Tags: h.service.TagCatalog()})
}

// GetCategories handles GET /gallery/categories
func (h *Handler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: h.service.Categories()})
}

// CreateCategory handles POST /gallery/categories
func (h *Handler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}
	if err := h.sessionStore.Validate(req.SessionID); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": fmt.Sprintf("Authentication failed: %v", err),
		})
	}

	cat, err := h.service.AddCategory(c.Request().Context(), strings.TrimSpace(req.Name))
	if err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}
	return c.JSON(http.StatusOK, cat)
}

// UpdateItem handles PUT /gallery/items/:id
// It commits the admin edit flow (category + tag list).
func (h *Handler) UpdateItem(c echo.Context) error {
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}
	if err := h.sessionStore.Validate(req.SessionID); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": fmt.Sprintf("Authentication failed: %v", err),
		})
	}

	item, err := h.service.UpdateItem(c.Request().Context(), c.Param("id"), req.Category, req.Tags)
	if err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /gallery/items/:id
func (h *Handler) DeleteItem(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}
	if err := h.sessionStore.Validate(sessionID); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": fmt.Sprintf("Authentication failed: %v", err),
		})
	}

	if err := h.service.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Refresh handles POST /gallery/refresh
// It re-fetches both collections from the document store.
func (h *Handler) Refresh(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}
	if err := h.sessionStore.Validate(sessionID); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": fmt.Sprintf("Authentication failed: %v", err),
		})
	}

	if err := h.service.Load(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("Failed to reload gallery data: %v", err),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   h.service.ItemCount(),
	})
}

// queryParamPresent distinguishes an absent parameter from an empty one
func queryParamPresent(c echo.Context, name string) (string, bool) {
	values, ok := c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
