package gallery

import (
	"testing"

	"pasteleria-backend/pkg/models"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Chocolate", "chocolate"},
		{"trims whitespace", "  fresa  ", "fresa"},
		{"strips trailing dots", "vainilla...", "vainilla"},
		{"removes accents", "Cumpleaños", "cumpleanos"},
		{"removes multiple accents", "Comunión", "comunion"},
		{"keeps inner dots", "3.leches", "3.leches"},
		{"empty input", "", ""},
		{"only dots", "...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTag(tt.input); got != tt.expected {
				t.Errorf("NormalizeTag(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTag_Idempotent(t *testing.T) {
	inputs := []string{"Chocolate", "  Cumpleaños. ", "Árbol", "fresa"}
	for _, in := range inputs {
		once := NormalizeTag(in)
		twice := NormalizeTag(once)
		if once != twice {
			t.Errorf("NormalizeTag not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeTag_VariantsCollapse(t *testing.T) {
	variants := []string{"Cumpleaños", "cumpleaños", "CUMPLEAÑOS.", " cumpleanos "}
	want := NormalizeTag(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeTag(v); got != want {
			t.Errorf("Expected %q to normalize to %q, got %q", v, want, got)
		}
	}
}

func TestPrettyTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"chocolate", "Chocolate"},
		{"  fresa. ", "Fresa"},
		{"ñoño", "Ñoño"},
		{"", ""},
		{"..", ""},
		{"YA UPPER", "YA UPPER"},
	}

	for _, tt := range tests {
		if got := PrettyTag(tt.input); got != tt.expected {
			t.Errorf("PrettyTag(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tortas Frías", "tortas-frias"},
		{"Por Porción", "por-porcion"},
		{"", "sin-cat"},
		{"***", "sin-cat"},
		{"  Dos   Palabras  ", "dos-palabras"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func catalogItems(tagLists ...[]string) []*models.PhotoItem {
	items := make([]*models.PhotoItem, len(tagLists))
	for i, tags := range tagLists {
		items[i] = &models.PhotoItem{ID: string(rune('a' + i)), Tags: tags}
	}
	return items
}

func TestComputeTagCatalog_CountsAndOrder(t *testing.T) {
	items := catalogItems(
		[]string{"chocolate", "fresa"},
		[]string{"Chocolate"},
		[]string{"chocolate", "vainilla"},
	)

	catalog := ComputeTagCatalog(items)
	if len(catalog) != 3 {
		t.Fatalf("Expected 3 catalog entries, got %d", len(catalog))
	}

	if catalog[0].Norm != "chocolate" || catalog[0].Count != 3 {
		t.Errorf("Expected chocolate first with count 3, got %s/%d", catalog[0].Norm, catalog[0].Count)
	}

	// Count ties keep first-seen order
	if catalog[1].Norm != "fresa" || catalog[2].Norm != "vainilla" {
		t.Errorf("Expected tie order fresa, vainilla; got %s, %s", catalog[1].Norm, catalog[2].Norm)
	}
}

func TestComputeTagCatalog_CountConservation(t *testing.T) {
	items := catalogItems(
		[]string{"a", "b", "c"},
		[]string{"A.", "b"},
		[]string{"á"},
	)

	catalog := ComputeTagCatalog(items)

	total := 0
	for _, entry := range catalog {
		total += entry.Count
	}
	if total != 6 {
		t.Errorf("Expected catalog counts to sum to 6 tag occurrences, got %d", total)
	}
}

func TestComputeTagCatalog_LongestLabelWins(t *testing.T) {
	items := catalogItems(
		[]string{"cumpleanos"},
		[]string{"Cumpleaños"},
	)

	catalog := ComputeTagCatalog(items)
	if len(catalog) != 1 {
		t.Fatalf("Expected variants to collapse to 1 entry, got %d", len(catalog))
	}

	// Both labels are 10 runes but the accented one is longer in bytes
	if catalog[0].Label != "Cumpleaños" {
		t.Errorf("Expected label %q, got %q", "Cumpleaños", catalog[0].Label)
	}
	if catalog[0].Count != 2 {
		t.Errorf("Expected count 2, got %d", catalog[0].Count)
	}
}

func TestComputeTagCatalog_SkipsEmptyTags(t *testing.T) {
	items := catalogItems(
		[]string{"", "   ", "...", "real"},
	)

	catalog := ComputeTagCatalog(items)
	if len(catalog) != 1 || catalog[0].Norm != "real" {
		t.Fatalf("Expected only the real tag to survive, got %+v", catalog)
	}
}
