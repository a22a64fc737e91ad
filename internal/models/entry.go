// Package models defines the domain types for vocabuild.
package models

import (
	"fmt"
	"strings"
)

// Entry is one vocabulary record.
type Entry struct {
	Word     string  `json:"word"`
	Meaning  string  `json:"meaning"`
	Phrase   string  `json:"phrase"`
	Category string  `json:"category"`
	Media    *string `json:"media,omitempty"`
}

// HasPhrase reports whether the entry carries an example phrase.
func (e Entry) HasPhrase() bool {
	return strings.TrimSpace(e.Phrase) != ""
}

// MediaPath returns the media reference and whether one is set.
func (e Entry) MediaPath() (string, bool) {
	if e.Media == nil || *e.Media == "" {
		return "", false
	}
	return *e.Media, true
}

// SameWord compares words the way the vocabulary file identifies entries.
func (e Entry) SameWord(word string) bool {
	return strings.EqualFold(e.Word, word)
}

// Category is one of the fixed topical buckets.
type Category string

// Categories, in canonical order.
const (
	CategoryGeneral    Category = "general"
	CategoryScience    Category = "science"
	CategoryBusiness   Category = "business"
	CategoryLiterature Category = "literature"
	CategoryTravel     Category = "travel"
	CategoryHistory    Category = "history"
	CategoryGeography  Category = "geography"
	CategoryHealth     Category = "health"
)

// Categories lists every category in canonical order. Word pools are
// flattened in this order.
var Categories = []Category{
	CategoryGeneral,
	CategoryScience,
	CategoryBusiness,
	CategoryLiterature,
	CategoryTravel,
	CategoryHistory,
	CategoryGeography,
	CategoryHealth,
}

// ParseCategory lower-cases s and returns the matching category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Title returns the category name with its first letter upper-cased.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (c Category) String() string { return string(c) }

// CategoryNames returns the category list as plain strings.
func CategoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}
