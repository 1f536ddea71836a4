// Package snapshot persists best-effort panel state so a reopened workspace
// shows the collected paths, folder list and last search it had before.
// Nothing in here is authoritative; every panel recomputes from disk.
package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/atpath/internal/filelock"
	"github.com/harrison/atpath/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is fixed width so stored timestamps compare as strings
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// State is the restorable part of a panel session
type State struct {
	Collected      []models.PathEntry `json:"collected"`
	FolderListText string             `json:"folderListText"`
	SearchTerm     string             `json:"searchTerm"`
	MatchCase      bool               `json:"matchCase"`
}

// Record is a stored State with its bookkeeping
type Record struct {
	Workspace string
	SessionID string
	State     State
	UpdatedAt time.Time
}

// Store manages the SQLite snapshot database
type Store struct {
	db        *sql.DB
	dbPath    string
	sessionID string
}

// NewStore opens or creates the database at dbPath. ":memory:" opens a
// private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Two servers opening the same fresh database would race on the schema
	var store *Store
	err := filelock.WithLock(context.Background(), dbPath+".lock", func() error {
		var err error
		store, err = openAndInitStore(dbPath)
		return err
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath, sessionID: uuid.New().String()}, nil
}

// execWithRetry retries "database is locked" failures with exponential backoff
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// SessionID identifies this store handle in saved records
func (s *Store) SessionID() string {
	return s.sessionID
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Key derives the workspace key from its roots; root order matters
func Key(roots []models.WorkspaceRoot) string {
	paths := make([]string, 0, len(roots))
	for _, r := range roots {
		paths = append(paths, filepath.Clean(r.Path))
	}
	return strings.Join(paths, "\n")
}

// Save replaces the stored state for a workspace
func (s *Store) Save(ctx context.Context, workspace string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO panel_state (workspace, session_id, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(workspace) DO UPDATE SET
			session_id = excluded.session_id,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		workspace, s.sessionID, string(data), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Load returns the stored state for a workspace; ok is false when none exists
func (s *Store) Load(ctx context.Context, workspace string) (rec Record, ok bool, err error) {
	var data, updated string
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, state, updated_at FROM panel_state WHERE workspace = ?`, workspace)
	if err := row.Scan(&rec.SessionID, &data, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("load state: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &rec.State); err != nil {
		return Record{}, false, fmt.Errorf("decode state: %w", err)
	}
	rec.Workspace = workspace
	rec.UpdatedAt, err = time.Parse(timeLayout, updated)
	if err != nil {
		return Record{}, false, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec, true, nil
}

// Delete drops the stored state for a workspace
func (s *Store) Delete(ctx context.Context, workspace string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM panel_state WHERE workspace = ?`, workspace); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// Prune deletes records not updated since before
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM panel_state WHERE updated_at < ?`,
		before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune state: %w", err)
	}
	return res.RowsAffected()
}
