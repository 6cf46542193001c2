package models

// PhotoItem represents one gallery entry, parsed from a raw document
type PhotoItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ImageURL    string   `json:"image_url"`
	PublicID    string   `json:"public_id,omitempty"`
	DeleteToken string   `json:"-"` // one-time media host credential (not sent to frontend)
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	TagsNorm    []string `json:"-"`          // normalized tag cache (derived, not sent to frontend)
	CreatedAt   int64    `json:"created_at"` // epoch milliseconds, 0 when unknown
}

// Category is a filter/select option for the gallery.
// It is copied onto items as a free-text label at upload time;
// renaming or deleting a category does not touch existing items.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"` // derived from the name, used for CSS classes
}

// UiTag is a derived catalog entry aggregated over all items
type UiTag struct {
	Norm  string `json:"norm"`  // normalization key
	Label string `json:"label"` // longest raw casing seen for the key
	Count int    `json:"count"`
}
