package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfnt/resize"

	"pasteleria-backend/internal/gallery"
	"pasteleria-backend/pkg/models"
)

const previewSize = 300

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles upload HTTP requests
type Handler struct {
	service      *Service
	sessionStore models.SessionStore
}

// NewHandler creates a new Handler instance
func NewHandler(service *Service, sessionStore models.SessionStore) *Handler {
	return &Handler{
		service:      service,
		sessionStore: sessionStore,
	}
}

// RegisterRoutes registers upload routes with the Echo instance
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/uploads", h.Upload)
	e.POST("/uploads/staged", h.StageFiles)
	e.GET("/uploads/staged", h.ListStaged)
	e.GET("/uploads/staged/:id/preview", h.StagedPreview)
	e.DELETE("/uploads/staged/:id", h.RemoveStaged)
	e.DELETE("/uploads/staged", h.ClearStaged)
	e.POST("/uploads/bulk", h.StartBulk)
	e.GET("/uploads/jobs/:jobId", h.GetJobStatus)
	e.DELETE("/uploads/jobs/:jobId", h.DeleteJob)
	e.GET("/uploads/jobs/:jobId/ws", h.WatchJob)
}

// Upload handles POST /uploads
// Multipart form fields: session_id, category (required), title, tags
// (comma-separated) and one or more "files" parts.
func (h *Handler) Upload(c echo.Context) error {
	sessionID := c.FormValue("session_id")
	if strings.TrimSpace(sessionID) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}
	if err := h.sessionStore.Validate(sessionID); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": fmt.Sprintf("Authentication failed: %v", err),
		})
	}

	category := strings.TrimSpace(c.FormValue("category"))
	if category == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "category is required",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid multipart form",
		})
	}

	title := strings.TrimSpace(c.FormValue("title"))
	tags := splitTags(c.FormValue("tags"))

	var files []models.MediaUpload
	for _, fh := range form.File["files"] {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to open uploaded file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to read uploaded file",
			})
		}
		files = append(files, models.MediaUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	summary, err := h.service.Upload(c.Request().Context(), files, title, category, tags)
	if err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}

	return c.JSON(http.StatusOK, summary)
}

// StageFiles handles POST /uploads/staged
func (h *Handler) StageFiles(c echo.Context) error {
	sessionID := c.FormValue("session_id")
	if strings.TrimSpace(sessionID) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}
	if err := h.sessionStore.Validate(sessionID); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": fmt.Sprintf("Authentication failed: %v", err),
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid multipart form",
		})
	}

	staging := h.service.Staging()
	for _, fh := range form.File["files"] {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to open uploaded file",
			})
		}
		// non-image entries are skipped, duplicates collapse silently
		_, err = staging.Add(fh.Filename, fh.Header.Get("Content-Type"), src)
		src.Close()
		if err != nil && err != ErrNotAnImage {
			resp := GetErrorResponse(err)
			return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
		}
	}

	return c.JSON(http.StatusOK, stagedResponse(staging))
}

// ListStaged handles GET /uploads/staged
func (h *Handler) ListStaged(c echo.Context) error {
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

	return c.JSON(http.StatusOK, stagedResponse(h.service.Staging()))
}

// StagedPreview handles GET /uploads/staged/:id/preview
// It serves a downscaled thumbnail of a staged file for the review grid.
func (h *Handler) StagedPreview(c echo.Context) error {
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

	sf, ok := h.service.Staging().Get(c.Param("id"))
	if !ok {
		resp := GetErrorResponse(ErrFileNotFound)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}

	data, err := os.ReadFile(sf.Path)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to read staged file",
		})
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// undecodable formats are served as-is
		return c.Blob(http.StatusOK, sf.ContentType, data)
	}

	thumb := resize.Thumbnail(previewSize, previewSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to encode preview",
		})
	}

	c.Response().Header().Set("Cache-Control", "private, max-age=3600")
	return c.Blob(http.StatusOK, "image/jpeg", buf.Bytes())
}

// RemoveStaged handles DELETE /uploads/staged/:id
func (h *Handler) RemoveStaged(c echo.Context) error {
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

	if !h.service.Staging().Remove(c.Param("id")) {
		resp := GetErrorResponse(ErrFileNotFound)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// ClearStaged handles DELETE /uploads/staged
// It empties the whole queue without uploading anything.
func (h *Handler) ClearStaged(c echo.Context) error {
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

	cleared := h.service.Staging().Clear()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"cleared": cleared,
	})
}

// StartBulk handles POST /uploads/bulk
func (h *Handler) StartBulk(c echo.Context) error {
	var req BulkUploadRequest
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

	jobID, total, err := h.service.StartBulkUpload()
	if err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}

	return c.JSON(http.StatusOK, BulkUploadResponse{
		JobID:  jobID,
		Status: "processing",
		Total:  total,
	})
}

// GetJobStatus handles GET /uploads/jobs/:jobId
func (h *Handler) GetJobStatus(c echo.Context) error {
	jobID := c.Param("jobId")
	if strings.TrimSpace(jobID) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "job_id is required",
		})
	}

	status, err := h.service.JobStatus(jobID)
	if err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}

	return c.JSON(http.StatusOK, status)
}

// DeleteJob handles DELETE /uploads/jobs/:jobId
func (h *Handler) DeleteJob(c echo.Context) error {
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

	if err := h.service.DeleteJob(c.Param("jobId")); err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// WatchJob handles GET /uploads/jobs/:jobId/ws
// It streams job progress snapshots over a websocket until the job leaves
// the processing state.
func (h *Handler) WatchJob(c echo.Context) error {
	jobID := c.Param("jobId")
	if _, err := h.service.JobStatus(jobID); err != nil {
		resp := GetErrorResponse(err)
		return c.JSON(resp.StatusCode, map[string]string{"error": resp.Message})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	// the first snapshot goes out right away so short jobs still get a
	// progress frame before the completion one
	for {
		status, err := h.service.JobStatus(jobID)
		if err != nil {
			break
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(status); err != nil {
			break
		}

		if status.Status != "processing" {
			break
		}
		<-ticker.C
	}

	return nil
}

// splitTags parses a comma-separated tag field into a prettified,
// deduplicated list, the same shape the chip editor produces
func splitTags(raw string) []string {
	list := gallery.NewTagList(nil)
	for _, t := range strings.Split(raw, ",") {
		list.Add(t)
	}
	return list.Tags()
}

func stagedResponse(staging *Staging) StagedResponse {
	files := staging.List()
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return StagedResponse{Files: files, TotalSize: total}
}
