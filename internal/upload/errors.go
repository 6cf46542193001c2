package upload

import (
	"errors"
	"net/http"

	"pasteleria-backend/internal/providers/cloudinary"
)

var (
	ErrNoFiles      = errors.New("no files provided for upload")
	ErrNotAnImage   = errors.New("only image files can be uploaded")
	ErrJobNotFound  = errors.New("upload job not found")
	ErrFileNotFound = errors.New("staged file not found")
)

type ErrorResponse struct {
	StatusCode int
	Message    string
}

// GetErrorResponse returns the appropriate HTTP response for an error
func GetErrorResponse(err error) ErrorResponse {
	switch {
	case errors.Is(err, cloudinary.ErrMissingConfig):
		return ErrorResponse{http.StatusServiceUnavailable, err.Error()}
	case errors.Is(err, ErrNoFiles):
		return ErrorResponse{http.StatusBadRequest, err.Error()}
	case errors.Is(err, ErrNotAnImage):
		return ErrorResponse{http.StatusBadRequest, err.Error()}
	case errors.Is(err, ErrJobNotFound):
		return ErrorResponse{http.StatusNotFound, err.Error()}
	case errors.Is(err, ErrFileNotFound):
		return ErrorResponse{http.StatusNotFound, err.Error()}
	default:
		return ErrorResponse{http.StatusInternalServerError, "An unexpected error occurred. Please try again."}
	}
}
