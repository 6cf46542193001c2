package gallery

import "pasteleria-backend/pkg/models"

// ItemsResponse is the response for the filtered gallery view.
// NextVisible is the visible value to request for the next page,
// already clamped to the filtered total.
type ItemsResponse struct {
	Items       []*models.PhotoItem `json:"items"`
	Total       int                 `json:"total"`
	Visible     int                 `json:"visible"`
	HasMore     bool                `json:"has_more"`
	NextVisible int                 `json:"next_visible"`
}

// TagsResponse is the response for the derived tag catalog
type TagsResponse struct {
	Tags []models.UiTag `json:"tags"`
}

// CategoriesResponse is the response for the category option set
type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// UpdateItemRequest is the request body for the admin edit flow
type UpdateItemRequest struct {
	SessionID string   `json:"session_id"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
}
