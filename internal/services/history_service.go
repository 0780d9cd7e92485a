package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ajramos/mailassist/internal/db"
)

// DefaultHistoryKeep is the number of entries retained after each write
const DefaultHistoryKeep = 500

// HistoryService records and lists past requests. A nil store disables it.
type HistoryService struct {
	store  *db.HistoryStore
	keep   int
	logger *slog.Logger
}

// NewHistoryService creates a history service over store
func NewHistoryService(store *db.HistoryStore, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{store: store, keep: DefaultHistoryKeep, logger: logger}
}

// Enabled reports whether entries are persisted
func (s *HistoryService) Enabled() bool {
	return s != nil && s.store != nil
}

// Record stores an entry and prunes old ones
func (s *HistoryService) Record(ctx context.Context, entry db.HistoryEntry) error {
	if !s.Enabled() {
		return nil
	}
	if _, err := s.store.Add(ctx, entry); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if s.keep > 0 {
		if err := s.store.Prune(ctx, s.keep); err != nil {
			s.logger.Warn("history prune failed", "error", err)
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]db.HistoryEntry, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.store.List(ctx, limit)
}

// Count returns the number of stored entries
func (s *HistoryService) Count(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	return s.store.Count(ctx)
}

// Clear deletes every entry
func (s *HistoryService) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.store.Clear(ctx)
}
