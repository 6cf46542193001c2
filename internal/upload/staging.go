package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StagedFile is a not-yet-uploaded image held on local disk. Its backing
// file lives only as long as the staging entry and must be released when
// the entry is removed or a batch finishes.
type StagedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Path        string `json:"-"`
}

// Staging holds files queued for a bulk upload in a scratch directory
type Staging struct {
	dir     string
	mu      sync.Mutex
	entries []*StagedFile
}

// NewStaging creates a staging area backed by dir, or a fresh temp
// directory when dir is empty
func NewStaging(dir string) (*Staging, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "gallery-staging-")
		if err != nil {
			return nil, fmt.Errorf("failed to create staging directory: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Staging{dir: dir}, nil
}

// Add stages a single incoming file. Non-image content is rejected, and a
// file with the same name and size as an existing entry is dropped as a
// duplicate (returned as nil without error).
func (st *Staging) Add(name, contentType string, r io.Reader) (*StagedFile, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	id := uuid.NewString()
	path := filepath.Join(st.dir, id)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stage file: %w", err)
	}
	size, err := io.Copy(dst, r)
	dst.Close()
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to stage file: %w", err)
	}

	entry := &StagedFile{
		ID:          id,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Path:        path,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for _, existing := range st.entries {
		if existing.Name == name && existing.Size == size {
			os.Remove(path)
			return nil, nil
		}
	}
	st.entries = append(st.entries, entry)
	return entry, nil
}

// Get looks up a staged entry by id
func (st *Staging) Get(id string) (*StagedFile, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, e := range st.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// List returns the current queue in staging order
func (st *Staging) List() []*StagedFile {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*StagedFile, len(st.entries))
	copy(out, st.entries)
	return out
}

// Remove releases a single entry and its backing file
func (st *Staging) Remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i, e := range st.entries {
		if e.ID == id {
			os.Remove(e.Path)
			st.entries = append(st.entries[:i], st.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Release removes the given entries and their backing files. Called when a
// batch finishes, regardless of per-item success.
func (st *Staging) Release(files []*StagedFile) {
	st.mu.Lock()
	defer st.mu.Unlock()

	drop := make(map[string]bool, len(files))
	for _, f := range files {
		drop[f.ID] = true
		os.Remove(f.Path)
	}

	kept := st.entries[:0]
	for _, e := range st.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	st.entries = kept
}

// Clear releases every staged entry and reports how many were dropped
func (st *Staging) Clear() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, e := range st.entries {
		os.Remove(e.Path)
	}
	n := len(st.entries)
	st.entries = nil
	return n
}
