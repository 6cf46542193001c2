package gallery

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"pasteleria-backend/internal/providers/docstore"
	"pasteleria-backend/pkg/models"
)

const (
	categoriesCollection = "categories"
	galleryCollection    = "gallery"
)

// NewItem carries the fields for a freshly uploaded gallery entry
type NewItem struct {
	Title       string
	ImageURL    string
	PublicID    string
	DeleteToken string
	Category    string
	Tags        []string
}

// Service owns the in-memory snapshot of the gallery and category
// collections. The snapshot is a cache of the remote store with no
// subscription; mutations are reflected into it after the remote call
// succeeds. Unlike a single browser tab, the server is concurrent, so the
// snapshot is guarded by a RWMutex.
type Service struct {
	docs  DocumentStore
	media MediaHost

	mu         sync.RWMutex
	items      []*models.PhotoItem
	categories []models.Category
	catalog    []models.UiTag

	catalogDebounce *Debouncer
}

func NewService(docs DocumentStore, media MediaHost) *Service {
	return &Service{
		docs:            docs,
		media:           media,
		catalogDebounce: NewDebouncer(DefaultDebounce),
	}
}

// Load fetches both collections wholesale and rebuilds the snapshot
func (s *Service) Load(ctx context.Context) error {
	catDocs, err := s.docs.ListDocuments(ctx, categoriesCollection)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	categories := make([]models.Category, 0, len(catDocs))
	for _, d := range catDocs {
		name := stringField(d.Fields, "name")
		if name == "" {
			continue
		}
		categories = append(categories, models.Category{ID: d.ID, Name: name, Slug: Slugify(name)})
	}

	itemDocs, err := s.docs.ListDocuments(ctx, galleryCollection)
	if err != nil {
		return fmt.Errorf("failed to load gallery: %w", err)
	}

	items := make([]*models.PhotoItem, 0, len(itemDocs))
	for _, d := range itemDocs {
		items = append(items, parseItem(d))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.items = items
	s.catalog = ComputeTagCatalog(items)
	return nil
}

// parseItem converts a loose document into a PhotoItem, substituting defined
// defaults for missing or malformed fields so the rest of the system never
// sees the remote schema's looseness.
func parseItem(d docstore.Document) *models.PhotoItem {
	tags := stringSliceField(d.Fields, "tags")
	return &models.PhotoItem{
		ID:          d.ID,
		Title:       stringField(d.Fields, "title"),
		ImageURL:    stringField(d.Fields, "imageUrl"),
		PublicID:    stringField(d.Fields, "publicId"),
		DeleteToken: stringField(d.Fields, "deleteToken"),
		Category:    stringField(d.Fields, "category"),
		Tags:        tags,
		TagsNorm:    NormalizeTags(tags),
		CreatedAt:   millisField(d.Fields, "createdAt"),
	}
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceField(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// millisField accepts a numeric epoch-millisecond value or a parseable
// string timestamp, defaulting to 0
func millisField(fields map[string]any, key string) int64 {
	switch v := fields[key].(type) {
	case float64:
		return int64(v)
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts.UnixMilli()
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// View computes the filtered/sorted/paginated display list for the current snapshot
func (s *Service) View(f FilterState) View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeView(s.items, f)
}

// Item looks up a single item by id in the snapshot
func (s *Service) Item(id string) (*models.PhotoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}

// TagCatalog returns the current derived tag catalog
func (s *Service) TagCatalog() []models.UiTag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UiTag, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Categories returns the current category option set
func (s *Service) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// AddCategory creates a category document and appends it to the snapshot.
// Categories are append-only in this flow; renames and deletes do not cascade.
func (s *Service) AddCategory(ctx context.Context, name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, ErrCategoryRequired
	}

	id, err := s.docs.AddDocument(ctx, categoriesCollection, map[string]any{"name": name})
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to create category: %w", err)
	}

	cat := models.Category{ID: id, Name: name, Slug: Slugify(name)}
	s.mu.Lock()
	s.categories = append(s.categories, cat)
	s.mu.Unlock()
	return cat, nil
}

// AddItem persists a new gallery document and appends it to the snapshot.
// Used by the upload flows.
func (s *Service) AddItem(ctx context.Context, item NewItem) (*models.PhotoItem, error) {
	tags := cleanTags(item.Tags)
	createdAt := time.Now().UnixMilli()

	id, err := s.docs.AddDocument(ctx, galleryCollection, map[string]any{
		"title":       item.Title,
		"imageUrl":    item.ImageURL,
		"publicId":    item.PublicID,
		"deleteToken": item.DeleteToken,
		"category":    item.Category,
		"tags":        tags,
		"createdAt":   createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist gallery item: %w", err)
	}

	added := &models.PhotoItem{
		ID:          id,
		Title:       item.Title,
		ImageURL:    item.ImageURL,
		PublicID:    item.PublicID,
		DeleteToken: item.DeleteToken,
		Category:    item.Category,
		Tags:        tags,
		TagsNorm:    NormalizeTags(tags),
		CreatedAt:   createdAt,
	}

	s.mu.Lock()
	s.items = append(s.items, added)
	s.mu.Unlock()
	s.scheduleCatalogRebuild()
	return added, nil
}

// UpdateItem commits the edit flow: writes category and tags to the remote
// document, then reflects the same values into the in-memory item, including
// its normalized-tag cache.
func (s *Service) UpdateItem(ctx context.Context, id, category string, tags []string) (*models.PhotoItem, error) {
	if _, err := s.Item(id); err != nil {
		return nil, err
	}

	cleaned := cleanTags(tags)
	err := s.docs.UpdateDocument(ctx, galleryCollection, id, map[string]any{
		"category": category,
		"tags":     cleaned,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update gallery item: %w", err)
	}

	s.mu.Lock()
	var updated *models.PhotoItem
	for i, it := range s.items {
		if it.ID != id {
			continue
		}
		copied := *it
		copied.Category = category
		copied.Tags = cleaned
		copied.TagsNorm = NormalizeTags(cleaned)
		s.items[i] = &copied
		updated = &copied
		break
	}
	s.mu.Unlock()

	if updated == nil {
		return nil, ErrItemNotFound
	}
	s.scheduleCatalogRebuild()
	return updated, nil
}

// DeleteItem removes an item. The remote asset is revoked best-effort first
// (token endpoint, else public-id proxy when configured, else nothing);
// the metadata document is deleted regardless, so an orphaned remote asset
// is an accepted failure mode but an orphaned document is not.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	item, err := s.Item(id)
	if err != nil {
		return err
	}

	if item.DeleteToken != "" {
		if err := s.media.DeleteByToken(ctx, item.DeleteToken); err != nil {
			log.Printf("media host delete-by-token failed for %s: %v", id, err)
		}
	} else if item.PublicID != "" && s.media.HasDeleteProxy() {
		if err := s.media.DeleteByPublicID(ctx, item.PublicID); err != nil {
			log.Printf("media host delete-by-public-id failed for %s: %v", id, err)
		}
	}

	if err := s.docs.DeleteDocument(ctx, galleryCollection, id); err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()
	s.scheduleCatalogRebuild()
	return nil
}

// ItemCount reports the snapshot size
func (s *Service) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// scheduleCatalogRebuild coalesces catalog recomputation after bursts of
// mutations (bulk uploads finish many items in quick succession)
func (s *Service) scheduleCatalogRebuild() {
	s.catalogDebounce.Trigger(s.rebuildCatalog)
}

func (s *Service) rebuildCatalog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = ComputeTagCatalog(s.items)
}

// cleanTags trims entries and drops empties, preserving order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if tt := strings.TrimSpace(t); tt != "" {
			out = append(out, tt)
		}
	}
	return out
}
