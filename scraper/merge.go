package scraper

import (
	"unicode/utf8"

	"github.com/pagelens/pagelens/models"
)

// MergeSections reconciles the rendered section set into the static one.
// A rendered section with a new id is appended; on an id collision the
// variant with the longer extracted text wins, ties keeping the existing
// entry.
//
// Id matching assumes the per-type ordinals line up between the static and
// rendered DOM. When the rendered DOM adds or removes landmark elements,
// ids can pair unrelated content across passes; that is an accepted
// limitation of the heuristic.
func MergeSections(static, rendered []models.Section) []models.Section {
	merged := make([]models.Section, len(static))
	copy(merged, static)

	index := make(map[string]int, len(merged))
	for i, s := range merged {
		index[s.ID] = i
	}

	for _, sec := range rendered {
		if i, ok := index[sec.ID]; ok {
			// Compare character counts, not bytes, so multibyte text is
			// weighed the same as ASCII.
			if utf8.RuneCountInString(sec.Content.Text) > utf8.RuneCountInString(merged[i].Content.Text) {
				merged[i] = sec
			}
			continue
		}
		index[sec.ID] = len(merged)
		merged = append(merged, sec)
	}

	return merged
}
