package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"pasteleria-backend/pkg/models"
)

var (
	cloudNameRe  = regexp.MustCompile(`(?i)res\.cloudinary\.com/([^/]+)/image/upload/`)
	attachmentRe = regexp.MustCompile(`(?i)/upload/(?:[^/]*,)?(?:fl_)?attachment[^/]*/`)
)

// Service provides all media host operations in one place: unsigned uploads,
// asset deletion and derived (resized/format-converted) URL construction
type Service struct {
	httpClient     *http.Client
	baseURL        string
	deliveryURL    string
	cloudName      string
	uploadPreset   string
	deleteProxyURL string
}

// NewService creates a new media host service from environment configuration
func NewService() *Service {
	return &Service{
		httpClient:     &http.Client{Timeout: 2 * time.Minute},
		baseURL:        "https://api.cloudinary.com/v1_1",
		deliveryURL:    "https://res.cloudinary.com",
		cloudName:      os.Getenv("CLOUDINARY_CLOUD_NAME"),
		uploadPreset:   os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		deleteProxyURL: os.Getenv("CLOUDINARY_DELETE_URL"),
	}
}

// Configured reports whether the required account values are present.
// Upload flows must call this before doing any network work.
func (s *Service) Configured() error {
	if s.cloudName == "" || s.uploadPreset == "" {
		return ErrMissingConfig
	}
	return nil
}

// HasDeleteProxy reports whether the optional delete-by-public-id proxy is configured
func (s *Service) HasDeleteProxy() bool {
	return s.deleteProxyURL != ""
}

// Upload submits a file to the unsigned upload endpoint and returns the stored asset
func (s *Service) Upload(ctx context.Context, up *models.MediaUpload, opts *models.MediaUploadOptions) (*models.MediaAsset, error) {
	if err := s.Configured(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &models.MediaUploadOptions{}
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", up.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	form.WriteField("upload_preset", s.uploadPreset)
	if opts.Folder != "" {
		form.WriteField("folder", opts.Folder)
	}
	if len(opts.Tags) > 0 {
		form.WriteField("tags", strings.Join(opts.Tags, ","))
	}
	if opts.Caption != "" {
		form.WriteField("context", fmt.Sprintf("caption=%s|alt=%s", opts.Caption, opts.Caption))
	}
	if opts.RequestDeleteToken {
		form.WriteField("return_delete_token", "1")
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.handleAPIError(resp)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &models.MediaAsset{
		SecureURL:   uploaded.SecureURL,
		PublicID:    uploaded.PublicID,
		DeleteToken: uploaded.DeleteToken,
	}, nil
}

// DeleteByToken revokes an asset using the one-time deletion token issued at upload time
func (s *Service) DeleteByToken(ctx context.Context, token string) error {
	if s.cloudName == "" {
		return ErrMissingConfig
	}

	form := url.Values{}
	form.Set("token", token)

	endpoint := fmt.Sprintf("%s/%s/delete_by_token", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.handleAPIError(resp)
	}
	return nil
}

// DeleteByPublicID asks the self-hosted deletion proxy to remove an asset
// by its public identifier. Only usable when the proxy is configured.
func (s *Service) DeleteByPublicID(ctx context.Context, publicID string) error {
	if !s.HasDeleteProxy() {
		return ErrNoDeleteProxy
	}

	payload, err := json.Marshal(deleteProxyRequest{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.deleteProxyURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.handleAPIError(resp)
	}
	return nil
}

// FetchImage retrieves an image stream from a delivery URL (used by the thumbnail proxy)
func (s *Service) FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("image request failed with status: %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// TransformURL builds a derived URL for an asset, capped at the given height.
// Falls back to rewriting the stored URL when no public id is known.
func (s *Service) TransformURL(imageURL, publicID string, height int) string {
	cloud := s.cloudNameFor(imageURL)
	common := fmt.Sprintf("f_auto,q_auto,h_%d,c_limit", height)

	if cloud != "" && publicID != "" {
		return fmt.Sprintf("%s/%s/image/upload/%s/%s", s.deliveryURL, cloud, common, publicID)
	}
	if strings.Contains(imageURL, "/image/upload/") {
		return strings.Replace(imageURL, "/upload/", "/upload/"+common+"/", 1)
	}
	return imageURL
}

// ShareURL builds a width-capped URL suitable for sharing outside the site.
// Attachment flags and query strings are stripped so the link renders inline.
func (s *Service) ShareURL(imageURL, publicID string, width int) string {
	cloud := s.cloudNameFor(imageURL)
	common := fmt.Sprintf("f_auto,q_auto,dpr_auto,c_limit,w_%d", width)

	if cloud != "" && publicID != "" {
		return fmt.Sprintf("%s/%s/image/upload/%s/%s", s.deliveryURL, cloud, common, publicID)
	}

	clean := strings.SplitN(imageURL, "?", 2)[0]
	clean = attachmentRe.ReplaceAllString(clean, "/upload/")
	if strings.Contains(clean, "/image/upload/") {
		return strings.Replace(clean, "/upload/", "/upload/"+common+"/", 1)
	}
	return clean
}

// cloudNameFor returns the configured cloud name, falling back to the one
// embedded in a delivery URL
func (s *Service) cloudNameFor(imageURL string) string {
	if s.cloudName != "" {
		return s.cloudName
	}
	if m := cloudNameRe.FindStringSubmatch(imageURL); m != nil {
		return m[1]
	}
	return ""
}

// handleAPIError extracts a useful message from a non-200 media host response
func (s *Service) handleAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("media host error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("media host request failed with status: %d", resp.StatusCode)
}
