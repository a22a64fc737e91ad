package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "vocabuild-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var sample = []models.Entry{
	{Word: "hello", Meaning: "a greeting", Phrase: "Hello, how are you?", Category: "general"},
	{Word: "atom", Meaning: "smallest unit of matter", Phrase: "Everything is made of atoms.", Category: "science"},
	{Word: "profit", Meaning: "financial gain", Phrase: "The shop made a profit.", Category: "Business"},
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM files`).Scan(&count), "files table")
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM entries`).Scan(&count), "entries table")
}

func TestReplaceAndGetChecksum(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.ReplaceFile(FileRow{Path: "vocabulary.txt", Checksum: "abc123"}, sample))

	cs, err := db.GetChecksum("vocabulary.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc123", cs)

	var n int
	require.NoError(t, db.conn.QueryRow(`SELECT entries FROM files WHERE path = ?`, "vocabulary.txt").Scan(&n))
	assert.Equal(t, len(sample), n)
}

func TestReplaceDropsOldEntries(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.ReplaceFile(FileRow{Path: "v.txt", Checksum: "1"}, sample))
	require.NoError(t, db.ReplaceFile(FileRow{Path: "v.txt", Checksum: "2"}, sample[:1]))

	cs, _ := db.GetChecksum("v.txt")
	assert.Equal(t, "2", cs)

	results, err := db.Search("atom", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "stale entry still searchable")

	results, err = db.Search("hello", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDeleteFile(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.ReplaceFile(FileRow{Path: "del.txt", Checksum: "x"}, sample))
	require.NoError(t, db.DeleteFile("del.txt"))

	cs, _ := db.GetChecksum("del.txt")
	assert.Empty(t, cs)

	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM entries WHERE path = ?`, "del.txt").Scan(&count))
	assert.Zero(t, count)
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.txt")
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.ReplaceFile(FileRow{Path: "a.txt", Checksum: "1"}, nil))
	require.NoError(t, db.ReplaceFile(FileRow{Path: "b.txt", Checksum: "2"}, sample))

	all, err := db.AllChecksums()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.txt": "1", "b.txt": "2"}, all)
}

func TestCategoryCounts(t *testing.T) {
	db := testDB(t)
	entries := append([]models.Entry{{Word: "yes", Meaning: "agree", Category: "GENERAL"}}, sample...)
	require.NoError(t, db.ReplaceFile(FileRow{Path: "v.txt", Checksum: "1"}, entries))

	counts, err := db.CategoryCounts("v.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, counts["general"])
	assert.Equal(t, 1, counts["science"])
	assert.Equal(t, 1, counts["business"])
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.ReplaceFile(FileRow{Path: "s.txt", Checksum: "1"}, sample))

	results, err := db.Search("matter", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "atom", results[0].Word)
	assert.Equal(t, 1, results[0].Line)
	assert.Equal(t, "s.txt", results[0].Path)
	assert.Equal(t, "science", results[0].Category)
}

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	require.NoError(t, err)
	db := testDB(t)

	content := "hello | a greeting | Hi! | general\ngarbage line\nrun | move fast | I run. | health\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocabulary.txt"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "korean.json"), []byte(`{}`), 0o644))
	require.NoError(t, db.ReplaceFile(FileRow{Path: "gone.txt", Checksum: "old"}, sample))

	require.NoError(t, Sync(db, store, quietLogger()))

	all, err := db.AllChecksums()
	require.NoError(t, err)
	assert.NotContains(t, all, "gone.txt", "stale file removed")
	assert.NotContains(t, all, "korean.json", "only vocabulary files are indexed")
	require.NotEmpty(t, all["vocabulary.txt"])

	counts, err := db.CategoryCounts("vocabulary.txt")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"general": 1, "health": 1}, counts, "malformed line skipped")
}

func TestRefresh_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	require.NoError(t, err)
	db := testDB(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v.txt"), []byte("a | b | c | general\n"), 0o644))

	changed, err := Refresh(db, store, "v.txt")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = Refresh(db, store, "v.txt")
	require.NoError(t, err)
	assert.False(t, changed)
}
