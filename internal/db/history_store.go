package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// HistoryEntry is one recorded request. Text is stored only in redacted form.
type HistoryEntry struct {
	ID            int64
	CreatedAt     time.Time
	Action        string
	Prompt        string
	ContextKind   string
	Source        string
	RedactedText  string
	FilteredCount int
	Response      string
	Error         string
}

// HistoryStore handles request history persistence
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a new history store from a base store
func NewHistoryStore(store *Store) *HistoryStore {
	if store == nil {
		return nil
	}
	return &HistoryStore{db: store.DB()}
}

// Add inserts an entry and returns its id
func (hs *HistoryStore) Add(ctx context.Context, e HistoryEntry) (int64, error) {
	if hs == nil || hs.db == nil {
		return 0, fmt.Errorf("history store not initialized")
	}
	if strings.TrimSpace(e.Prompt) == "" {
		return 0, fmt.Errorf("history entry needs a prompt")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := hs.db.ExecContext(ctx, `INSERT INTO history
(created_at, action, prompt, context_kind, source, redacted_text, filtered_count, response, error)
VALUES (?,?,?,?,?,?,?,?,?)`,
		e.CreatedAt.UnixMilli(), e.Action, e.Prompt, e.ContextKind, e.Source,
		e.RedactedText, e.FilteredCount, e.Response, e.Error)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns up to limit entries, newest first
func (hs *HistoryStore) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if hs == nil || hs.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := hs.db.QueryContext(ctx, `SELECT id, created_at, action, prompt, context_kind, source,
redacted_text, filtered_count, response, error
FROM history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var created int64
		if err := rows.Scan(&e.ID, &created, &e.Action, &e.Prompt, &e.ContextKind, &e.Source,
			&e.RedactedText, &e.FilteredCount, &e.Response, &e.Error); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored entries
func (hs *HistoryStore) Count(ctx context.Context) (int, error) {
	if hs == nil || hs.db == nil {
		return 0, fmt.Errorf("history store not initialized")
	}
	var n int
	err := hs.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n)
	return n, err
}

// Clear removes every entry
func (hs *HistoryStore) Clear(ctx context.Context) error {
	if hs == nil || hs.db == nil {
		return fmt.Errorf("history store not initialized")
	}
	_, err := hs.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

// Prune keeps only the newest keep entries
func (hs *HistoryStore) Prune(ctx context.Context, keep int) error {
	if hs == nil || hs.db == nil {
		return fmt.Errorf("history store not initialized")
	}
	_, err := hs.db.ExecContext(ctx, `DELETE FROM history WHERE id NOT IN
(SELECT id FROM history ORDER BY created_at DESC, id DESC LIMIT ?)`, keep)
	return err
}
