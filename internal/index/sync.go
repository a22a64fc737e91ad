package index

import (
	"log/slog"
	"time"

	"github.com/starford/vocabuild/internal/checksum"
	"github.com/starford/vocabuild/internal/storage"
	"github.com/starford/vocabuild/internal/vocabfile"
)

// Sync walks the data directory and brings the index up to date:
//   - new/changed vocabulary files are parsed and re-indexed
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("", vocabfile.Ext)
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteFile(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// Refresh re-indexes a single file if its content changed. It reports
// whether the index was modified.
func Refresh(db *DB, store storage.Provider, path string) (bool, error) {
	data, err := store.Read(path)
	if err != nil {
		return false, err
	}
	cs, err := db.GetChecksum(path)
	if err != nil {
		return false, err
	}
	if cs == checksum.Sum(data) {
		return false, nil
	}
	return true, indexFile(db, path, data)
}

// indexFile parses data and replaces the file's entries in the DB.
// Malformed lines are skipped the same way the repository skips them.
func indexFile(db *DB, path string, data []byte) error {
	row := FileRow{
		Path:      path,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now().UTC(),
	}
	return db.ReplaceFile(row, vocabfile.Parse(data).Entries())
}
