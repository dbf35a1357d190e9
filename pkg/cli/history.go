package cli

import (
	"database/sql"
	"log/slog"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	line    TEXT NOT NULL,
	entered TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// historyStore persists REPL lines across sessions in a SQLite file.
type historyStore struct {
	db *sql.DB
}

func openHistory(path string) (*historyStore, error) {
	if path == "" {
		return nil, errors.New("history disabled")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history table")
	}
	return &historyStore{db: db}, nil
}

func (h *historyStore) Close() error {
	return h.db.Close()
}

// Append records one entered line under the given session id.
func (h *historyStore) Append(session, line string) {
	if _, err := h.db.Exec(
		`INSERT INTO history (session, line) VALUES (?, ?)`, session, line,
	); err != nil {
		slog.Debug("history append failed", "err", err)
	}
}

// Recent returns up to limit lines, oldest first, for preloading the
// prompt's in-memory history.
func (h *historyStore) Recent(limit int) []string {
	rows, err := h.db.Query(
		`SELECT line FROM (
			SELECT id, line FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit,
	)
	if err != nil {
		slog.Debug("history query failed", "err", err)
		return nil
	}
	defer rows.Close()
	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return lines
		}
		lines = append(lines, line)
	}
	return lines
}
