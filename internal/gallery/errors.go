package gallery

import (
	"errors"
	"net/http"
)

var (
	ErrItemNotFound     = errors.New("gallery item not found")
	ErrCategoryRequired = errors.New("category name is required")
)

type ErrorResponse struct {
	StatusCode int
	Message    string
}

// GetErrorResponse returns the appropriate HTTP response for an error
func GetErrorResponse(err error) ErrorResponse {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return ErrorResponse{http.StatusNotFound, err.Error()}
	case errors.Is(err, ErrCategoryRequired):
		return ErrorResponse{http.StatusBadRequest, err.Error()}
	default:
		return ErrorResponse{http.StatusInternalServerError, "An unexpected error occurred. Please try again."}
	}
}
