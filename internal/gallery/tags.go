package gallery

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"pasteleria-backend/pkg/models"
)

// stripAccents removes combining diacritical marks after canonical decomposition.
// A chained transformer carries internal buffers, so build one per call.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeTag produces the canonical key for a raw tag:
// trimmed, trailing dots stripped, accents removed, lowercased.
// Two raw tags with the same key are the same tag everywhere.
func NormalizeTag(raw string) string {
	t := strings.TrimSpace(raw)
	t = strings.TrimRight(t, ".")
	t = stripAccents(t)
	return strings.ToLower(t)
}

// PrettyTag produces the display form of a raw tag:
// trimmed, trailing dots stripped, first rune uppercased.
func PrettyTag(raw string) string {
	t := strings.TrimSpace(raw)
	t = strings.TrimRight(t, ".")
	if t == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(t)
	return string(unicode.ToUpper(r)) + t[size:]
}

// Slugify turns a category name into a URL/CSS-safe slug
func Slugify(s string) string {
	if s == "" {
		return "sin-cat"
	}
	t := strings.ToLower(stripAccents(s))

	var b strings.Builder
	prevDash := true // avoid leading dash
	for _, r := range t {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
		} else if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "sin-cat"
	}
	return slug
}

// NormalizeTags maps a raw tag list to its normalized keys, dropping empties
func NormalizeTags(tags []string) []string {
	norms := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			norms = append(norms, n)
		}
	}
	return norms
}

// ComputeTagCatalog aggregates normalized tags across the full item set into
// unique entries with usage counts, sorted by descending count. Ties keep
// first-encountered-key order; for label casing variants the longest wins,
// with the first-seen label kept on an exact length tie.
func ComputeTagCatalog(items []*models.PhotoItem) []models.UiTag {
	stats := make(map[string]*models.UiTag)
	var order []string

	for _, it := range items {
		for _, raw := range it.Tags {
			key := NormalizeTag(raw)
			if key == "" {
				continue
			}
			label := PrettyTag(raw)
			if prev, ok := stats[key]; ok {
				prev.Count++
				if len(label) > len(prev.Label) {
					prev.Label = label
				}
			} else {
				stats[key] = &models.UiTag{Norm: key, Label: label, Count: 1}
				order = append(order, key)
			}
		}
	}

	catalog := make([]models.UiTag, 0, len(order))
	for _, key := range order {
		catalog = append(catalog, *stats[key])
	}
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Count > catalog[j].Count
	})
	return catalog
}
