//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/vocabuild/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the entries table.
	return nil
}

func ftsInsert(_ *sql.Tx, _ string, _ int, _ models.Entry) error {
	// Entries are already stored in their own table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
// Word matches rank before meaning and phrase matches.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT path, line, word, meaning, phrase, category
		FROM entries
		WHERE word LIKE ? OR meaning LIKE ? OR phrase LIKE ? OR category LIKE ?
		ORDER BY CASE WHEN word LIKE ? THEN 0 ELSE 1 END, path, line
		LIMIT ?
	`, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Line, &r.Word, &r.Meaning, &r.Phrase, &r.Category); err != nil {
			return nil, err
		}
		r.Snippet = snippet(r.Phrase, 64)
		out = append(out, r)
	}
	return out, rows.Err()
}
