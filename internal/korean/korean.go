// Package korean loads the Korean vocabulary track.
package korean

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/storage"
)

// Beginner view limits.
var (
	BeginnerCategories = []string{"general", "health"}
	BeginnerWords      = 10
)

// Vocabulary maps a category name to its Korean words.
type Vocabulary map[string][]models.KoreanWord

// Load reads the Korean vocabulary file at path. A missing file yields an
// empty vocabulary.
func Load(store storage.Provider, path string) (Vocabulary, error) {
	data, err := store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Vocabulary{}, nil
		}
		return nil, fmt.Errorf("korean: read %s: %w", path, err)
	}
	var v Vocabulary
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("korean: decode %s: %w", path, err)
	}
	if v == nil {
		v = Vocabulary{}
	}
	return v, nil
}

// Categories returns the category names in sorted order.
func (v Vocabulary) Categories() []string {
	keys := lo.Keys(v)
	slices.Sort(keys)
	return keys
}

// lookup finds category by exact key first, then case-insensitively.
func (v Vocabulary) lookup(category string) (string, []models.KoreanWord, bool) {
	if words, ok := v[category]; ok {
		return category, words, true
	}
	category = strings.TrimSpace(category)
	for _, k := range v.Categories() {
		if strings.EqualFold(k, category) {
			return k, v[k], true
		}
	}
	return "", nil, false
}

// Words returns the words of category, or nil when it does not exist.
// Category names match case-insensitively.
func (v Vocabulary) Words(category string) []models.KoreanWord {
	_, words, _ := v.lookup(category)
	return words
}

// Entries converts the words of category into vocabulary entries so they
// can be quizzed like any other category. The entries carry the category
// name as stored in the file.
func (v Vocabulary) Entries(category string) []models.Entry {
	key, words, _ := v.lookup(category)
	return lo.Map(words, func(w models.KoreanWord, _ int) models.Entry {
		return w.Entry(key)
	})
}

// Counts returns the number of words per category.
func (v Vocabulary) Counts() map[string]int {
	return lo.MapValues(v, func(words []models.KoreanWord, _ string) int {
		return len(words)
	})
}

// Total returns the number of words across all categories.
func (v Vocabulary) Total() int {
	return lo.Sum(lo.Values(v.Counts()))
}

// Beginner returns the beginner view: only BeginnerCategories that exist,
// each cut to its first BeginnerWords words.
func (v Vocabulary) Beginner() Vocabulary {
	out := make(Vocabulary)
	for _, c := range BeginnerCategories {
		key, words, ok := v.lookup(c)
		if !ok {
			continue
		}
		out[key] = words[:min(len(words), BeginnerWords)]
	}
	return out
}
