package cache

import (
	"unicode/utf8"

	"ytmusicbot/internal/catalog"
)

const (
	// PageSize is the number of tracks per result page.
	PageSize = 5

	maxLabelRunes = 55
)

// Page is a window over a result set. It is derived, never stored.
type Page struct {
	Index   int
	Total   int
	Items   []catalog.Track
	HasPrev bool
	HasNext bool
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate returns page index of tracks. ok is false when the page does not
// exist, which callers treat like an expired search.
func Paginate(tracks []catalog.Track, index int) (Page, bool) {
	total := TotalPages(len(tracks))
	if index < 0 || index >= total {
		return Page{}, false
	}

	start := index * PageSize
	end := min(start+PageSize, len(tracks))
	return Page{
		Index:   index,
		Total:   total,
		Items:   tracks[start:end],
		HasPrev: index > 0,
		HasNext: index < total-1,
	}, true
}

// ButtonLabel renders "artist • title" for a keyboard button.
func ButtonLabel(t catalog.Track) string {
	label := t.Title
	if t.Artist != "" {
		label = t.Artist + " • " + t.Title
	}
	if utf8.RuneCountInString(label) <= maxLabelRunes {
		return label
	}
	r := []rune(label)
	return string(r[:maxLabelRunes-3]) + "..."
}
