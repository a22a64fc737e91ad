// Package testutil provides shared test helpers for setting up data
// directories, repositories and index databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/vocabuild/internal/index"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/storage"
	"github.com/starford/vocabuild/internal/vocab"
)

// VocabularyFile is the file name tests use for the main vocabulary.
const VocabularyFile = "vocabulary.txt"

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "vocabuild-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary data directory with a storage.Provider.
func TestDataDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestRepo creates a repository over a temporary data directory and seeds
// VocabularyFile with entries.
func TestRepo(t *testing.T, entries ...models.Entry) (string, *vocab.Repository) {
	t.Helper()
	dir, store := TestDataDir(t)
	repo := vocab.NewRepository(store)
	if len(entries) > 0 {
		if err := repo.Replace(VocabularyFile, entries); err != nil {
			t.Fatal(err)
		}
	}
	return dir, repo
}

// Entries returns a small vocabulary with four general words and one
// science word.
func Entries() []models.Entry {
	return []models.Entry{
		{Word: "hello", Meaning: "a greeting", Phrase: "Hello, how are you?", Category: "general"},
		{Word: "thanks", Meaning: "gratitude", Phrase: "Thanks for your help.", Category: "general"},
		{Word: "friend", Meaning: "a person you like", Phrase: "She is my friend.", Category: "general"},
		{Word: "house", Meaning: "a home", Phrase: "", Category: "general"},
		{Word: "atom", Meaning: "smallest unit of matter", Phrase: "Everything is made of atoms.", Category: "science"},
	}
}
