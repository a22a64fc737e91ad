package vocab

import (
	"strings"

	"github.com/samber/lo"

	"github.com/starford/vocabuild/internal/models"
)

// Filter returns the entries whose category equals category
// case-insensitively, in input order. The result is never nil.
func Filter(entries []models.Entry, category string) []models.Entry {
	out := lo.Filter(entries, func(e models.Entry, _ int) bool {
		return strings.EqualFold(e.Category, category)
	})
	if out == nil {
		return []models.Entry{}
	}
	return out
}

// CountByCategory returns how many entries fall into each known category.
// Entries with an unknown category are not counted.
func CountByCategory(entries []models.Entry) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}
	for _, e := range entries {
		if c, err := models.ParseCategory(e.Category); err == nil {
			counts[c]++
		}
	}
	return counts
}

// Find returns the first entry whose word equals word case-insensitively.
func Find(entries []models.Entry, word string) (models.Entry, bool) {
	return lo.Find(entries, func(e models.Entry) bool {
		return e.SameWord(word)
	})
}
