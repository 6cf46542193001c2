package models

// MediaUpload is a file on its way to the media host
type MediaUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// MediaUploadOptions carries the per-upload form fields for the media host
type MediaUploadOptions struct {
	Folder             string
	Tags               []string
	Caption            string // used for both caption and alt context
	RequestDeleteToken bool
}

// MediaAsset is what the media host returns for a stored file
type MediaAsset struct {
	SecureURL   string `json:"secure_url"`
	PublicID    string `json:"public_id"`
	DeleteToken string `json:"delete_token,omitempty"`
}
