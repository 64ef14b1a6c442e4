package core

import "strings"

// AllCode and AllLabel are the sentinel entries of the category table and of
// the subcategory options. No grant carries them.
const (
	AllCode  = "AA"
	AllLabel = "All"
)

// CategoryEntry maps a short category code to the label stored on grants.
type CategoryEntry struct {
	Code  string
	Label string
}

// CategoryTable is the ordered code→label lookup used by the category filter.
// Matching is always done on the resolved label.
type CategoryTable struct {
	entries []CategoryEntry
	byCode  map[string]int
	byLabel map[string]int
}

// NewCategoryTable builds a table from entries. The sentinel AA→All entry is
// prepended when missing.
func NewCategoryTable(entries []CategoryEntry) CategoryTable {
	t := CategoryTable{
		byCode:  make(map[string]int, len(entries)+1),
		byLabel: make(map[string]int, len(entries)+1),
	}
	add := func(e CategoryEntry) {
		if _, dup := t.byCode[e.Code]; dup {
			return
		}
		t.byCode[e.Code] = len(t.entries)
		t.byLabel[strings.ToLower(e.Label)] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	add(CategoryEntry{Code: AllCode, Label: AllLabel})
	for _, e := range entries {
		add(e)
	}
	return t
}

// DefaultCategories is the grant type table of the Long Covid dataset.
func DefaultCategories() CategoryTable {
	return NewCategoryTable([]CategoryEntry{
		{Code: "Adv", Label: "Advice"},
		{Code: "Art", Label: "Arts"},
		{Code: "Aware", Label: "Awareness"},
		{Code: "Core", Label: "Core funding"},
		{Code: "Med", Label: "Medical"},
		{Code: "Psychol", Label: "Psychological"},
		{Code: "Social", Label: "Social care"},
		{Code: "Well", Label: "Wellbeing"},
	})
}

// Entries returns the table in display order, sentinel first.
func (t CategoryTable) Entries() []CategoryEntry {
	return append([]CategoryEntry(nil), t.entries...)
}

// Label resolves a code. ok is false for unknown codes.
func (t CategoryTable) Label(code string) (string, bool) {
	i, ok := t.byCode[code]
	if !ok {
		return "", false
	}
	return t.entries[i].Label, true
}

// Resolve accepts either a code or a label (case-insensitive) and returns the
// canonical code.
func (t CategoryTable) Resolve(codeOrLabel string) (string, bool) {
	v := strings.TrimSpace(codeOrLabel)
	if i, ok := t.byCode[v]; ok {
		return t.entries[i].Code, true
	}
	if i, ok := t.byLabel[strings.ToLower(v)]; ok {
		return t.entries[i].Code, true
	}
	return "", false
}

// IsAll reports whether code is the pass-all sentinel.
func IsAll(code string) bool {
	return code == AllCode
}

// DefaultMarkerColour is used for categories missing from the colour table.
const DefaultMarkerColour = "darkblue"

var markerColours = map[string]string{
	"Social care":     "#292f56",
	"Psychological":   "#21416d",
	"Medical":         "#005483",
	"Arts":            "#006794",
	"Awareness":       "#007a9a",
	"Advice":          "#008da1",
	"Communication":   "#00a1a4",
	"Wellbeing":       "#00b5a3",
	"Social research": "#00ca9a",
	"Core funding":    "#36dc8d",
	"Rehabilitation":  "#76ec7e",
	"Epidemiology":    "#acfa70",
}

// MarkerColour returns the map marker colour for a category label.
func MarkerColour(category string) string {
	if c, ok := markerColours[category]; ok {
		return c
	}
	return DefaultMarkerColour
}
