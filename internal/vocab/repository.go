// Package vocab reads and updates vocabulary files and answers category
// queries over loaded entries.
//
// Repository follows a single-writer contract: it takes no locks, so two
// writers racing on one file can lose an update (last writer wins). Every
// write replaces the file atomically, so readers never observe a partially
// written file. Callers sharing a Repository across goroutines must
// serialise writes themselves.
package vocab

import (
	"errors"
	"fmt"
	"os"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/storage"
	"github.com/starford/vocabuild/internal/vocabfile"
)

// Repository persists vocabulary entries in pipe-delimited files.
type Repository struct {
	store storage.Provider
}

// NewRepository creates a repository on top of store.
func NewRepository(store storage.Provider) *Repository {
	return &Repository{store: store}
}

// Store returns the underlying storage provider.
func (r *Repository) Store() storage.Provider {
	return r.store
}

// Load returns every well-formed entry of the file in order. A missing
// file yields an empty slice and no error.
func (r *Repository) Load(path string) ([]models.Entry, error) {
	doc, err := r.document(path)
	if err != nil {
		return nil, err
	}
	return doc.Entries(), nil
}

// Append writes e as a new line at the end of the file, creating it if
// needed. e is written as given; validate it first.
func (r *Repository) Append(path string, e models.Entry) error {
	doc, err := r.document(path)
	if err != nil {
		return err
	}
	doc.Append(e)
	return r.write(path, doc.Bytes())
}

// UpdatePhrase replaces the phrase of the first entry whose word equals
// word case-insensitively. Every other line is kept byte for byte. The file
// is only rewritten when a match exists; no match returns false, nil.
func (r *Repository) UpdatePhrase(path, word, phrase string) (bool, error) {
	doc, err := r.document(path)
	if err != nil {
		return false, err
	}
	i := doc.Find(word)
	if i < 0 {
		return false, nil
	}
	doc.Lines[i] = doc.Lines[i].WithPhrase(phrase)
	if err := r.write(path, doc.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

// Replace overwrites the file with entries, one canonical line each.
func (r *Repository) Replace(path string, entries []models.Entry) error {
	return r.write(path, vocabfile.Encode(entries))
}

// Raw returns the file content, or nil when the file does not exist.
func (r *Repository) Raw(path string) ([]byte, error) {
	data, err := r.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	return data, nil
}

func (r *Repository) document(path string) (*vocabfile.Document, error) {
	data, err := r.Raw(path)
	if err != nil {
		return nil, err
	}
	return vocabfile.Parse(data), nil
}

func (r *Repository) write(path string, data []byte) error {
	if err := r.store.Write(path, data); err != nil {
		return fmt.Errorf("vocab: write %s: %w: %w", path, apperr.ErrWriteFailure, err)
	}
	return nil
}
