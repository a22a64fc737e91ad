package index

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/storage"
	"github.com/starford/vocabuild/internal/vocab"
)

const (
	waitFor = 5 * time.Second
	tick    = 50 * time.Millisecond
)

// watcherTestEnv sets up a data dir, storage, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFS(dataDir)
	require.NoError(t, err)
	return dataDir, store, testDB(t)
}

// startWatch runs Watch until the test ends and records its callbacks.
func startWatch(t *testing.T, db *DB, store storage.Provider, dataDir string) *eventLog {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := &eventLog{}
	go Watch(ctx, db, store, dataDir, quietLogger(), log.record)
	time.Sleep(100 * time.Millisecond)
	return log
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) record(kind, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, kind+":"+path)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func indexed(db *DB, path string) func() bool {
	return func() bool {
		cs, _ := db.GetChecksum(path)
		return cs != ""
	}
}

func TestWatcher_NewFileIndexed(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	log := startWatch(t, db, store, dataDir)

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "new.txt"), []byte("hello | greeting | Hi | general\n"), 0o644))

	assert.Eventually(t, indexed(db, "new.txt"), waitFor, tick, "new file not indexed")
	assert.Eventually(t, func() bool {
		return slices.Contains(log.snapshot(), "created:new.txt")
	}, 2*time.Second, tick, "expected created:new.txt callback")
}

func TestWatcher_AtomicWriteReindexes(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	repo := vocab.NewRepository(store)
	require.NoError(t, repo.Append("vocabulary.txt", models.Entry{Word: "hello", Meaning: "greeting", Phrase: "Hi", Category: "general"}))
	require.NoError(t, Sync(db, store, quietLogger()))

	log := startWatch(t, db, store, dataDir)

	_, err := repo.UpdatePhrase("vocabulary.txt", "hello", "uniquephrasetoken")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		results, _ := db.Search("uniquephrasetoken", 10)
		return len(results) == 1
	}, waitFor, tick, "updated phrase not re-indexed")

	for _, e := range log.snapshot() {
		assert.Equal(t, "updated:vocabulary.txt", e, "temp files must be ignored")
	}
}

func TestWatcher_NewDirWatched(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	startWatch(t, db, store, dataDir)

	subDir := filepath.Join(dataDir, "lists")
	require.NoError(t, os.MkdirAll(subDir, 0o755))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(subDir, "deep.txt"), []byte("atom | particle | Split it | science\n"), 0o644))

	assert.Eventually(t, indexed(db, filepath.Join("lists", "deep.txt")), waitFor, tick,
		"file in new subdir not indexed")
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "del.txt"), []byte("a | b | c | general\n"), 0o644))
	require.NoError(t, Sync(db, store, quietLogger()))
	require.True(t, indexed(db, "del.txt")())

	startWatch(t, db, store, dataDir)
	require.NoError(t, os.Remove(filepath.Join(dataDir, "del.txt")))

	assert.Eventually(t, func() bool { return !indexed(db, "del.txt")() }, waitFor, tick,
		"deleted file still in index")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "old.txt"), []byte("a | b | c | general\n"), 0o644))
	require.NoError(t, Sync(db, store, quietLogger()))

	startWatch(t, db, store, dataDir)
	require.NoError(t, os.Rename(filepath.Join(dataDir, "old.txt"), filepath.Join(dataDir, "renamed.txt")))

	assert.Eventually(t, func() bool {
		return !indexed(db, "old.txt")() && indexed(db, "renamed.txt")()
	}, waitFor, tick, "old path should be removed and new path indexed")
}
