package gallery

// TagList is the working tag list behind the admin chip editor. It is seeded
// from an item's existing tags when the editor opens and committed via
// Service.UpdateItem.
type TagList struct {
	tags []string
}

// NewTagList seeds a working list from existing raw tags
func NewTagList(seed []string) *TagList {
	tags := make([]string, 0, len(seed))
	for _, t := range seed {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return &TagList{tags: tags}
}

// Add appends the prettified form of a candidate tag. Returns false when an
// equal normalized key is already present (case/format-insensitive dedup).
func (l *TagList) Add(raw string) bool {
	label := PrettyTag(raw)
	key := NormalizeTag(label)
	if key == "" {
		return false
	}
	for _, t := range l.tags {
		if NormalizeTag(t) == key {
			return false
		}
	}
	l.tags = append(l.tags, label)
	return true
}

// Remove deletes every entry matching the given normalized key
func (l *TagList) Remove(norm string) {
	kept := l.tags[:0]
	for _, t := range l.tags {
		if NormalizeTag(t) != norm {
			kept = append(kept, t)
		}
	}
	l.tags = kept
}

// Tags returns a copy of the working list in insertion order
func (l *TagList) Tags() []string {
	out := make([]string, len(l.tags))
	copy(out, l.tags)
	return out
}
