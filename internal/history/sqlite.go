package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reelarchitect/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scripts (
	id          TEXT PRIMARY KEY,
	app_id      TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	result      TEXT NOT NULL,
	created_at  TEXT
);
CREATE INDEX IF NOT EXISTS scripts_scope_idx ON scripts (app_id, user_id);
`

// SQLiteStore keeps history in a local SQLite file, for running without Supabase.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := "file::memory:"
	if path != ":memory:" {
		// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, scope Scope, entry models.HistoryEntry) (models.HistoryEntry, error) {
	if !scope.Valid() {
		return models.HistoryEntry{}, storeErr(opAppend, ErrInvalidScope)
	}
	result, err := json.Marshal(entry.Result)
	if err != nil {
		return models.HistoryEntry{}, storeErr(opAppend, err)
	}

	created := s.now().UTC()
	entry.ID = uuid.NewString()
	entry.CreatedAt = &created

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scripts (id, app_id, user_id, title, description, result, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, scope.AppID, scope.UserID, entry.Title, entry.Description, string(result), created.Format(time.RFC3339Nano))
	if err != nil {
		return models.HistoryEntry{}, storeErr(opAppend, err)
	}
	return entry, nil
}

func (s *SQLiteStore) List(ctx context.Context, scope Scope) ([]models.HistoryEntry, error) {
	if !scope.Valid() {
		return nil, storeErr(opList, ErrInvalidScope)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, result, created_at FROM scripts WHERE app_id = ? AND user_id = ?`,
		scope.AppID, scope.UserID)
	if err != nil {
		return nil, storeErr(opList, err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			e         models.HistoryEntry
			result    string
			createdAt sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &result, &createdAt); err != nil {
			return nil, storeErr(opList, err)
		}
		if err := json.Unmarshal([]byte(result), &e.Result); err != nil {
			return nil, storeErr(opList, fmt.Errorf("decode result of %s: %w", e.ID, err))
		}
		if createdAt.Valid && createdAt.String != "" {
			if ts, err := time.Parse(time.RFC3339Nano, createdAt.String); err == nil {
				e.CreatedAt = &ts
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(opList, err)
	}
	return entries, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, scope Scope, id string) error {
	if !scope.Valid() {
		return storeErr(opDelete, ErrInvalidScope)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM scripts WHERE id = ? AND app_id = ? AND user_id = ?`,
		id, scope.AppID, scope.UserID)
	if err != nil {
		return storeErr(opDelete, err)
	}
	return nil
}
