package index

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/vocabuild/internal/models"
)

// FileRow represents a row in the files table.
type FileRow struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	Snippet  string `json:"snippet"`
}

// ReplaceFile replaces every indexed entry of a file within a transaction.
// Entries are numbered in file order.
func (db *DB) ReplaceFile(f FileRow, entries []models.Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = time.Now().UTC()
	}
	_, err = tx.Exec(`
		INSERT INTO files (path, checksum, entries, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			entries    = excluded.entries,
			updated_at = excluded.updated_at
	`, f.Path, f.Checksum, len(entries), f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE path = ?`, f.Path); err != nil {
		return fmt.Errorf("index: clear entries: %w", err)
	}
	ftsDelete(tx, f.Path)

	if len(entries) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO entries (path, line, word, meaning, phrase, category) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare entry insert: %w", err)
		}
		defer stmt.Close()
		for i, e := range entries {
			if _, err := stmt.Exec(f.Path, i, e.Word, e.Meaning, e.Phrase, e.Category); err != nil {
				return fmt.Errorf("index: insert entry: %w", err)
			}
			// FTS insert (no-op when FTS5 tag is absent).
			if err := ftsInsert(tx, f.Path, i, e); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteFile removes a file and all its entries.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM entries WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM files WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a file, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM files WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns the checksum of every indexed file keyed by path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// CategoryCounts returns the number of indexed entries per lower-cased
// category for one file.
func (db *DB) CategoryCounts(path string) (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT lower(category), count(*)
		FROM entries
		WHERE path = ?
		GROUP BY lower(category)
	`, path)
	if err != nil {
		return nil, fmt.Errorf("index: category counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var c string
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, rows.Err()
}

// snippet trims s to at most n runes, marking the cut.
func snippet(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
