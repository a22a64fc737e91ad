package index

import "github.com/starford/vocabuild/internal/models"

// EntryIndex defines the interface for vocabulary indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type EntryIndex interface {
	ReplaceFile(f FileRow, entries []models.Entry) error
	DeleteFile(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	CategoryCounts(path string) (map[string]int, error)
	Close() error
}

// Verify *DB satisfies EntryIndex at compile time.
var _ EntryIndex = (*DB)(nil)
