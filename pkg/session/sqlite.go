package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zen-systems/taskgate/pkg/task"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);
`

// SQLiteStore persists session history in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the session database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns a session's history. Query or scan failures are treated
// as a corrupt session: the rows are discarded and an empty history is
// returned so the caller starts fresh.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) ([]task.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		s.discard(ctx, sessionID)
		return nil, nil
	}
	defer rows.Close()

	var history []task.Message
	for rows.Next() {
		var m task.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			s.discard(ctx, sessionID)
			return nil, nil
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		s.discard(ctx, sessionID)
		return nil, nil
	}

	return history, nil
}

// Append adds one message to a session.
func (s *SQLiteStore) Append(ctx context.Context, sessionID, role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append session message: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// discard drops an unreadable session so the next call starts clean.
func (s *SQLiteStore) discard(ctx context.Context, sessionID string) {
	_, _ = s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID)
}
