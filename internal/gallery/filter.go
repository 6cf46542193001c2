package gallery

import (
	"slices"
	"sort"
	"strings"

	"pasteleria-backend/pkg/models"
)

// SortBy selects the ordering of the filtered gallery view
type SortBy string

const (
	SortRecent SortBy = "reciente"
	SortOldest SortBy = "antiguo"
	SortTitle  SortBy = "titulo"
)

// CategoryAll is the sentinel meaning "no category filter". An empty-string
// category is a real filter matching items with no category.
const CategoryAll = "todas"

// DefaultPageSize is the initial and incremental size of the visible prefix
const DefaultPageSize = 12

// FilterState holds the full query state for one view computation
type FilterState struct {
	Category string   // CategoryAll disables the filter
	Tags     []string // normalized keys, AND semantics
	Query    string   // free text, normalized before matching
	SortBy   SortBy
	Visible  int // pagination cursor; <=0 means DefaultPageSize
}

// View is the computed display list plus pagination bookkeeping
type View struct {
	Items   []*models.PhotoItem `json:"items"`
	Total   int                 `json:"total"` // filtered length before pagination
	Visible int                 `json:"visible"`
	HasMore bool                `json:"has_more"`
}

// ComputeView applies category, tag and text filters, sorts, and takes the
// visible prefix. Pure: the input slice and its items are never mutated.
func ComputeView(items []*models.PhotoItem, f FilterState) View {
	list := filterItems(items, f)
	sortItems(list, f.SortBy)

	visible := f.Visible
	if visible <= 0 {
		visible = DefaultPageSize
	}
	if visible > len(list) {
		visible = len(list)
	}

	return View{
		Items:   list[:visible],
		Total:   len(list),
		Visible: visible,
		HasMore: visible < len(list),
	}
}

// LoadMore grows a visible count by one page size, clamped to the list length
func LoadMore(visible, pageSize, total int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	next := visible + pageSize
	if next > total {
		next = total
	}
	return next
}

func filterItems(items []*models.PhotoItem, f FilterState) []*models.PhotoItem {
	q := NormalizeTag(f.Query)
	list := make([]*models.PhotoItem, 0, len(items))

	for _, it := range items {
		if f.Category != CategoryAll && it.Category != f.Category {
			continue
		}
		if len(f.Tags) > 0 && !containsAll(itemNorms(it), f.Tags) {
			continue
		}
		if q != "" && !anyContains(itemNorms(it), q) {
			continue
		}
		list = append(list, it)
	}
	return list
}

// itemNorms returns the cached normalized tags, recomputing when the cache is absent
func itemNorms(it *models.PhotoItem) []string {
	if it.TagsNorm != nil {
		return it.TagsNorm
	}
	return NormalizeTags(it.Tags)
}

func containsAll(norms, wanted []string) bool {
	for _, w := range wanted {
		if !slices.Contains(norms, w) {
			return false
		}
	}
	return true
}

func anyContains(norms []string, q string) bool {
	for _, n := range norms {
		if strings.Contains(n, q) {
			return true
		}
	}
	return false
}

func sortItems(list []*models.PhotoItem, by SortBy) {
	switch by {
	case SortTitle:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Title < list[j].Title
		})
	case SortOldest:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt < list[j].CreatedAt
		})
	default: // SortRecent
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt > list[j].CreatedAt
		})
	}
}
