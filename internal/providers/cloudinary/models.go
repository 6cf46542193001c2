package cloudinary

import "errors"

var (
	ErrMissingConfig = errors.New("media host configuration incomplete: CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET are required")
	ErrNoDeleteProxy = errors.New("no deletion proxy endpoint configured")
)

type uploadResponse struct {
	SecureURL   string `json:"secure_url"`
	PublicID    string `json:"public_id"`
	DeleteToken string `json:"delete_token"`
}

type deleteProxyRequest struct {
	PublicID string `json:"publicId"`
}
