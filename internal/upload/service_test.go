package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"pasteleria-backend/internal/gallery"
	"pasteleria-backend/internal/providers/cloudinary"
	"pasteleria-backend/pkg/models"
)

// mockMedia is a test implementation of MediaHost that can fail selected
// files and tracks how many uploads run at once
type mockMedia struct {
	configErr error
	failNames map[string]bool

	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	folders     []string
	captions    []string
}

func (m *mockMedia) Configured() error {
	return m.configErr
}

func (m *mockMedia) Upload(_ context.Context, up *models.MediaUpload, opts *models.MediaUploadOptions) (*models.MediaAsset, error) {
	m.mu.Lock()
	m.calls++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.folders = append(m.folders, opts.Folder)
	m.captions = append(m.captions, opts.Caption)
	fail := m.failNames[up.Name]
	m.mu.Unlock()

	// Let the rest of the chunk pile up so max concurrency is observable
	time.Sleep(10 * time.Millisecond)

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()

	if fail {
		return nil, errors.New("media host rejected the file")
	}
	return &models.MediaAsset{
		SecureURL:   "https://res.example.com/" + up.Name,
		PublicID:    "pasteleria/" + up.Name,
		DeleteToken: "tok-" + up.Name,
	}, nil
}

// mockGallery is a test implementation of GalleryStore
type mockGallery struct {
	mu    sync.Mutex
	added []gallery.NewItem
}

func (m *mockGallery) AddItem(_ context.Context, item gallery.NewItem) (*models.PhotoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, item)
	return &models.PhotoItem{ID: fmt.Sprintf("doc-%d", len(m.added)), ImageURL: item.ImageURL}, nil
}

func newTestService(t *testing.T, media MediaHost, store GalleryStore) *Service {
	t.Helper()
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create staging: %v", err)
	}
	return NewService(media, store, staging)
}

func stageTestFiles(t *testing.T, s *Service, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("photo-%02d.jpg", i)
		_, err := s.Staging().Add(name, "image/jpeg", strings.NewReader("fake image bytes"))
		if err != nil {
			t.Fatalf("Failed to stage %s: %v", name, err)
		}
	}
}

func waitForJob(t *testing.T, s *Service, jobID string) JobStatusResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err := s.JobStatus(jobID)
		if err != nil {
			t.Fatalf("JobStatus failed: %v", err)
		}
		if status.Status != "processing" {
			return status
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("Job did not finish in time")
	return JobStatusResponse{}
}

func TestService_Upload(t *testing.T) {
	media := &mockMedia{failNames: map[string]bool{"bad.jpg": true}}
	store := &mockGallery{}
	service := newTestService(t, media, store)

	files := []models.MediaUpload{
		{Name: "good.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "bad.jpg", ContentType: "image/jpeg", Data: []byte("b")},
	}

	summary, err := service.Upload(context.Background(), files, "Torta", "tortas", []string{"chocolate"})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if summary.Attempted != 2 || summary.Succeeded != 1 {
		t.Errorf("Expected 1/2 succeeded, got %d/%d", summary.Succeeded, summary.Attempted)
	}

	if len(store.added) != 1 {
		t.Fatalf("Expected 1 persisted item, got %d", len(store.added))
	}
	added := store.added[0]
	if added.Title != "Torta" || added.Category != "tortas" {
		t.Errorf("Unexpected item metadata: %+v", added)
	}
	if added.DeleteToken == "" {
		t.Error("Expected the delete token to be persisted")
	}

	if media.folders[0] != "pasteleria/gallery/tortas" {
		t.Errorf("Expected category folder, got %s", media.folders[0])
	}
}

func TestService_Upload_TitleFallsBackToFilename(t *testing.T) {
	media := &mockMedia{}
	store := &mockGallery{}
	service := newTestService(t, media, store)

	files := []models.MediaUpload{
		{Name: "selva-negra.jpg", ContentType: "image/jpeg", Data: []byte("a")},
	}

	if _, err := service.Upload(context.Background(), files, "", "tortas", nil); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if store.added[0].Title != "selva-negra.jpg" {
		t.Errorf("Expected filename as title, got %q", store.added[0].Title)
	}
	if media.captions[0] != "selva-negra.jpg" {
		t.Errorf("Expected filename as caption, got %q", media.captions[0])
	}
}

func TestService_Upload_NoFiles(t *testing.T) {
	service := newTestService(t, &mockMedia{}, &mockGallery{})

	if _, err := service.Upload(context.Background(), nil, "", "tortas", nil); err != ErrNoFiles {
		t.Errorf("Expected ErrNoFiles, got %v", err)
	}
}

func TestService_Upload_ConfigCheckedFirst(t *testing.T) {
	media := &mockMedia{configErr: cloudinary.ErrMissingConfig}
	service := newTestService(t, media, &mockGallery{})

	files := []models.MediaUpload{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}}
	_, err := service.Upload(context.Background(), files, "", "tortas", nil)
	if !errors.Is(err, cloudinary.ErrMissingConfig) {
		t.Fatalf("Expected config error, got %v", err)
	}
	if media.calls != 0 {
		t.Errorf("Expected no upload calls before the config check, got %d", media.calls)
	}
}

func TestService_BulkUpload(t *testing.T) {
	media := &mockMedia{failNames: map[string]bool{
		"photo-02.jpg": true,
		"photo-05.jpg": true,
		"photo-08.jpg": true,
	}}
	store := &mockGallery{}
	service := newTestService(t, media, store)
	stageTestFiles(t, service, 10)

	jobID, total, err := service.StartBulkUpload()
	if err != nil {
		t.Fatalf("StartBulkUpload failed: %v", err)
	}
	if total != 10 {
		t.Fatalf("Expected 10 queued files, got %d", total)
	}

	status := waitForJob(t, service, jobID)

	if status.Status != "completed" {
		t.Errorf("Expected completed status, got %s", status.Status)
	}
	// The counter reaches total regardless of the success mix
	if status.Done != 10 || status.Total != 10 || status.Progress != 100 {
		t.Errorf("Expected 10/10 at 100%%, got %d/%d at %d%%", status.Done, status.Total, status.Progress)
	}
	if status.Succeeded != 7 {
		t.Errorf("Expected 7 successes, got %d", status.Succeeded)
	}

	if len(store.added) != 7 {
		t.Errorf("Expected 7 persisted items, got %d", len(store.added))
	}
	for _, item := range store.added {
		if item.Title != "" || item.Category != "" || len(item.Tags) != 0 {
			t.Errorf("Expected empty metadata on bulk items, got %+v", item)
		}
	}

	if media.maxInFlight > BulkConcurrency {
		t.Errorf("Expected at most %d concurrent uploads, saw %d", BulkConcurrency, media.maxInFlight)
	}

	// Staged files are released once the batch finishes
	if remaining := service.Staging().List(); len(remaining) != 0 {
		t.Errorf("Expected staging to be released, %d entries remain", len(remaining))
	}
}

func TestService_BulkUpload_UsesBulkFolder(t *testing.T) {
	media := &mockMedia{}
	service := newTestService(t, media, &mockGallery{})
	stageTestFiles(t, service, 2)

	jobID, _, err := service.StartBulkUpload()
	if err != nil {
		t.Fatalf("StartBulkUpload failed: %v", err)
	}
	waitForJob(t, service, jobID)

	for _, folder := range media.folders {
		if folder != "pasteleria/gallery/bulk" {
			t.Errorf("Expected bulk folder, got %s", folder)
		}
	}
}

func TestService_BulkUpload_EmptyQueue(t *testing.T) {
	service := newTestService(t, &mockMedia{}, &mockGallery{})

	if _, _, err := service.StartBulkUpload(); err != ErrNoFiles {
		t.Errorf("Expected ErrNoFiles for an empty queue, got %v", err)
	}
}

func TestService_BulkUpload_ConfigCheckedFirst(t *testing.T) {
	media := &mockMedia{configErr: cloudinary.ErrMissingConfig}
	service := newTestService(t, media, &mockGallery{})
	stageTestFiles(t, service, 3)

	_, _, err := service.StartBulkUpload()
	if !errors.Is(err, cloudinary.ErrMissingConfig) {
		t.Fatalf("Expected config error, got %v", err)
	}
	if media.calls != 0 {
		t.Errorf("Expected no upload calls before the config check, got %d", media.calls)
	}
	// The queue stays intact for a retry after fixing the config
	if len(service.Staging().List()) != 3 {
		t.Error("Expected staging queue to survive a failed start")
	}
}

func TestService_BulkUpload_FailsWhenStagingWiped(t *testing.T) {
	media := &mockMedia{}
	service := newTestService(t, media, &mockGallery{})
	stageTestFiles(t, service, 3)

	// wipe the backing files out from under the queue
	for _, sf := range service.Staging().List() {
		if err := os.Remove(sf.Path); err != nil {
			t.Fatalf("Failed to remove backing file: %v", err)
		}
	}

	jobID, _, err := service.StartBulkUpload()
	if err != nil {
		t.Fatalf("StartBulkUpload failed: %v", err)
	}

	status := waitForJob(t, service, jobID)
	if status.Status != "failed" {
		t.Fatalf("Expected failed status, got %s", status.Status)
	}
	if status.Error == "" {
		t.Error("Expected an error message on the failed job")
	}
	if media.calls != 0 {
		t.Errorf("Expected no upload calls for a wiped queue, got %d", media.calls)
	}

	// the snapshot is still released so the queue does not hold ghosts
	if remaining := service.Staging().List(); len(remaining) != 0 {
		t.Errorf("Expected staging to be released, %d entries remain", len(remaining))
	}
}

func TestService_JobStatus_Unknown(t *testing.T) {
	service := newTestService(t, &mockMedia{}, &mockGallery{})

	if _, err := service.JobStatus("missing"); err != ErrJobNotFound {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}

func TestService_DeleteJob(t *testing.T) {
	service := newTestService(t, &mockMedia{}, &mockGallery{})
	stageTestFiles(t, service, 2)

	jobID, _, err := service.StartBulkUpload()
	if err != nil {
		t.Fatalf("StartBulkUpload failed: %v", err)
	}
	waitForJob(t, service, jobID)

	if err := service.DeleteJob(jobID); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}
	if _, err := service.JobStatus(jobID); err != ErrJobNotFound {
		t.Errorf("Expected ErrJobNotFound after delete, got %v", err)
	}
	if err := service.DeleteJob(jobID); err != ErrJobNotFound {
		t.Errorf("Expected ErrJobNotFound for a second delete, got %v", err)
	}
}

func TestChunked(t *testing.T) {
	list := []int{1, 2, 3, 4, 5, 6, 7}

	chunks := chunked(list, 3)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Errorf("Unexpected chunk sizes: %d %d %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	if got := chunked([]int{}, 3); len(got) != 0 {
		t.Errorf("Expected no chunks for an empty list, got %d", len(got))
	}

	// A non-positive size degrades to one item per chunk
	if got := chunked(list, 0); len(got) != len(list) {
		t.Errorf("Expected %d chunks for size 0, got %d", len(list), len(got))
	}
}

func TestStaging_Dedupe(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create staging: %v", err)
	}

	data := "same bytes"
	first, err := staging.Add("dup.jpg", "image/jpeg", strings.NewReader(data))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first == nil {
		t.Fatal("Expected first add to stage an entry")
	}

	second, err := staging.Add("dup.jpg", "image/jpeg", strings.NewReader(data))
	if err != nil {
		t.Fatalf("Duplicate add failed: %v", err)
	}
	if second != nil {
		t.Error("Expected name+size duplicate to be dropped")
	}

	if len(staging.List()) != 1 {
		t.Errorf("Expected 1 staged entry, got %d", len(staging.List()))
	}
}

func TestStaging_Clear(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create staging: %v", err)
	}

	var paths []string
	for i := 0; i < 3; i++ {
		entry, err := staging.Add(fmt.Sprintf("photo-%d.jpg", i), "image/jpeg", strings.NewReader(strings.Repeat("x", i+1)))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		paths = append(paths, entry.Path)
	}

	if cleared := staging.Clear(); cleared != 3 {
		t.Errorf("Expected 3 cleared entries, got %d", cleared)
	}
	if len(staging.List()) != 0 {
		t.Errorf("Expected an empty queue after Clear, got %d entries", len(staging.List()))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Expected backing file %s to be removed", p)
		}
	}

	if cleared := staging.Clear(); cleared != 0 {
		t.Errorf("Expected nothing to clear on an empty queue, got %d", cleared)
	}
}

func TestStaging_RejectsNonImages(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create staging: %v", err)
	}

	_, err = staging.Add("notes.txt", "text/plain", bytes.NewReader([]byte("hello")))
	if err != ErrNotAnImage {
		t.Errorf("Expected ErrNotAnImage, got %v", err)
	}
}
