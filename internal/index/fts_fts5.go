//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/vocabuild/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			path UNINDEXED,
			line UNINDEXED,
			word,
			meaning,
			phrase,
			category,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, path string, line int, e models.Entry) error {
	_, err := tx.Exec(`INSERT INTO entries_fts (path, line, word, meaning, phrase, category) VALUES (?, ?, ?, ?, ?, ?)`,
		path, line, e.Word, e.Meaning, e.Phrase, e.Category)
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM entries_fts WHERE path = ?`, path)
}

// Search performs an FTS5 full-text search and returns matching entries with
// a highlighted phrase snippet.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT path,
		       line,
		       word,
		       meaning,
		       phrase,
		       category,
		       snippet(entries_fts, 4, '<b>', '</b>', '...', 16)
		FROM entries_fts
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Line, &r.Word, &r.Meaning, &r.Phrase, &r.Category, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
