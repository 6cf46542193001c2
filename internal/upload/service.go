package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"pasteleria-backend/internal/gallery"
	"pasteleria-backend/pkg/models"
)

const (
	// BulkConcurrency is the number of uploads in flight within a chunk
	BulkConcurrency = 8

	uploadFolderPrefix = "pasteleria/gallery"
	bulkFolder         = uploadFolderPrefix + "/bulk"
)

// Service runs the upload pipelines: the normal (titled, categorized) flow
// and the concurrency-limited bulk flow with job progress tracking
type Service struct {
	media       MediaHost
	gallery     GalleryStore
	compressor  *Compressor
	staging     *Staging
	jobs        *JobManager
	concurrency int
}

func NewService(media MediaHost, galleryStore GalleryStore, staging *Staging) *Service {
	return &Service{
		media:       media,
		gallery:     galleryStore,
		compressor:  NewCompressor(),
		staging:     staging,
		jobs:        NewJobManager(),
		concurrency: BulkConcurrency,
	}
}

// Staging exposes the bulk staging queue
func (s *Service) Staging() *Staging {
	return s.staging
}

// Upload runs the normal flow: each file is compressed, submitted to the
// media host and persisted with the shared title/category/tags. Files are
// processed sequentially; a per-file failure is logged and skipped. The
// returned summary always reports succeeded out of attempted.
func (s *Service) Upload(ctx context.Context, files []models.MediaUpload, title, category string, tags []string) (*UploadSummary, error) {
	if err := s.media.Configured(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	folder := fmt.Sprintf("%s/%s", uploadFolderPrefix, category)
	summary := &UploadSummary{Attempted: len(files)}

	for _, f := range files {
		// the per-file title falls back to the original filename
		thisTitle := title
		if thisTitle == "" {
			thisTitle = f.Name
		}
		if err := s.uploadOne(ctx, f, thisTitle, category, tags, folder); err != nil {
			log.Printf("upload of %s failed: %v", f.Name, err)
			continue
		}
		summary.Succeeded++
	}
	return summary, nil
}

// StartBulkUpload snapshots the staging queue and processes it in the
// background, returning a job id for progress tracking. Configuration is
// checked before any network call.
func (s *Service) StartBulkUpload() (string, int, error) {
	if err := s.media.Configured(); err != nil {
		return "", 0, err
	}

	staged := s.staging.List()
	if len(staged) == 0 {
		return "", 0, ErrNoFiles
	}

	jobID := uuid.NewString()
	s.jobs.Create(jobID, len(staged))

	go s.runBulkUpload(jobID, staged)

	return jobID, len(staged), nil
}

// runBulkUpload partitions the queue into consecutive chunks of the
// concurrency limit, fires each chunk's items in parallel and awaits them
// all before the next chunk. Individual failures never abort the batch;
// the progress counter reaches total regardless of the success mix. Staged
// files are released once the batch finishes.
func (s *Service) runBulkUpload(jobID string, staged []*StagedFile) {
	ctx := context.Background()
	defer s.staging.Release(staged)

	// The scratch directory can be wiped between staging and processing
	// (a restart, or an external cleanup of the temp dir). If nothing of
	// the snapshot is left on disk the whole batch is unrunnable.
	remaining := 0
	for _, sf := range staged {
		if _, err := os.Stat(sf.Path); err == nil {
			remaining++
		}
	}
	if remaining == 0 {
		s.jobs.MarkFailed(jobID, "staged files are no longer available")
		return
	}

	for _, chunk := range chunked(staged, s.concurrency) {
		var wg sync.WaitGroup
		for _, sf := range chunk {
			wg.Add(1)
			go func(sf *StagedFile) {
				defer wg.Done()
				err := s.uploadStaged(ctx, sf)
				if err != nil {
					log.Printf("bulk upload of %s failed: %v", sf.Name, err)
				}
				s.jobs.ItemFinished(jobID, err == nil)
			}(sf)
		}
		wg.Wait()
	}

	s.jobs.MarkCompleted(jobID)
}

// uploadStaged processes one bulk item: read, compress, submit, persist.
// Bulk items are stored with empty title/category/tags; metadata is
// back-filled later through the edit flow.
func (s *Service) uploadStaged(ctx context.Context, sf *StagedFile) error {
	data, err := os.ReadFile(sf.Path)
	if err != nil {
		return fmt.Errorf("failed to read staged file: %w", err)
	}

	f := models.MediaUpload{Name: sf.Name, ContentType: sf.ContentType, Data: data}
	toUpload, err := s.compressor.Compress(f)
	if err != nil {
		return err
	}

	asset, err := s.media.Upload(ctx, &toUpload, &models.MediaUploadOptions{
		Folder:             bulkFolder,
		RequestDeleteToken: true,
	})
	if err != nil {
		return err
	}

	_, err = s.gallery.AddItem(ctx, gallery.NewItem{
		ImageURL:    asset.SecureURL,
		PublicID:    asset.PublicID,
		DeleteToken: asset.DeleteToken,
		Tags:        []string{},
	})
	return err
}

func (s *Service) uploadOne(ctx context.Context, f models.MediaUpload, title, category string, tags []string, folder string) error {
	toUpload, err := s.compressor.Compress(f)
	if err != nil {
		return err
	}

	asset, err := s.media.Upload(ctx, &toUpload, &models.MediaUploadOptions{
		Folder:             folder,
		Tags:               tags,
		Caption:            title,
		RequestDeleteToken: true,
	})
	if err != nil {
		return err
	}

	_, err = s.gallery.AddItem(ctx, gallery.NewItem{
		Title:       title,
		ImageURL:    asset.SecureURL,
		PublicID:    asset.PublicID,
		DeleteToken: asset.DeleteToken,
		Category:    category,
		Tags:        tags,
	})
	return err
}

// JobStatus retrieves the status of a bulk upload job
func (s *Service) JobStatus(jobID string) (JobStatusResponse, error) {
	status, ok := s.jobs.Snapshot(jobID)
	if !ok {
		return JobStatusResponse{}, ErrJobNotFound
	}
	return status, nil
}

// DeleteJob discards a job's progress record once the caller is done
// polling it
func (s *Service) DeleteJob(jobID string) error {
	if !s.jobs.Delete(jobID) {
		return ErrJobNotFound
	}
	return nil
}

// chunked partitions a list into consecutive chunks of at most size items
func chunked[T any](list []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	var chunks [][]T
	for start := 0; start < len(list); start += size {
		end := start + size
		if end > len(list) {
			end = len(list)
		}
		chunks = append(chunks, list[start:end])
	}
	return chunks
}
