// Package wordpool provides the predefined English word pools for levels 1-3.
package wordpool

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/vocab"
)

// PerCategory is the number of words every category holds in a pool.
const PerCategory = 20

//go:embed data/*.yaml
var data embed.FS

// Pools maps each category to its ordered words for one level.
type Pools map[models.Category][]models.Entry

type poolWord struct {
	Word    string `yaml:"word"`
	Meaning string `yaml:"meaning"`
	Phrase  string `yaml:"phrase"`
}

// Load returns a fresh copy of the word pool for level. Levels without a
// predefined pool return apperr.ErrNotFound.
func Load(level models.Level) (Pools, error) {
	if !level.HasWordPool() {
		return nil, fmt.Errorf("wordpool: level %d: %w", level, apperr.ErrNotFound)
	}
	raw, err := data.ReadFile(fmt.Sprintf("data/level%d.yaml", level))
	if err != nil {
		return nil, fmt.Errorf("wordpool: level %d: %w", level, apperr.ErrNotFound)
	}

	var byCategory map[string][]poolWord
	if err := yaml.Unmarshal(raw, &byCategory); err != nil {
		return nil, fmt.Errorf("wordpool: decode level %d: %w", level, err)
	}

	pools := make(Pools, len(models.Categories))
	for name, words := range byCategory {
		c, err := models.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("wordpool: level %d: %w", level, err)
		}
		entries := make([]models.Entry, len(words))
		for i, w := range words {
			entries[i] = models.Entry{
				Word:     w.Word,
				Meaning:  w.Meaning,
				Phrase:   w.Phrase,
				Category: string(c),
			}
		}
		pools[c] = entries
	}
	return pools, nil
}

// Flatten concatenates the pools in canonical category order, keeping the
// order within each category.
func (p Pools) Flatten() []models.Entry {
	out := make([]models.Entry, 0, len(p)*PerCategory)
	for _, c := range models.Categories {
		out = append(out, p[c]...)
	}
	return out
}

// Len returns the total number of words across all categories.
func (p Pools) Len() int {
	n := 0
	for _, words := range p {
		n += len(words)
	}
	return n
}

// Save overwrites the vocabulary file at path with the flattened pools.
func Save(repo *vocab.Repository, pools Pools, path string) error {
	return repo.Replace(path, pools.Flatten())
}

// Generate loads the pool for level and saves it to path. It returns the
// number of words written.
func Generate(repo *vocab.Repository, level models.Level, path string) (int, error) {
	pools, err := Load(level)
	if err != nil {
		return 0, err
	}
	if err := Save(repo, pools, path); err != nil {
		return 0, err
	}
	return pools.Len(), nil
}
