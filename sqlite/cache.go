package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Compile-time interface verification.
var _ secondbrain.PreviewCache = (*CacheService)(nil)

// CacheService implements secondbrain.PreviewCache using SQLite. Entries
// are keyed by normalized URL, matching the popover record identity.
type CacheService struct {
	db *DB
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db}
}

// FindByURL retrieves the cached entry for a normalized URL.
// Returns ENOTFOUND if the URL has not been checked before.
func (s *CacheService) FindByURL(ctx context.Context, url string) (*secondbrain.PreviewEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, snippet, content_hash, checked_at
		FROM previews
		WHERE url = ?
	`, url)

	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, secondbrain.Errorf(secondbrain.ENOTFOUND, "no cached preview for %q", url)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Upsert inserts or replaces the entry for its URL.
func (s *CacheService) Upsert(ctx context.Context, entry *secondbrain.PreviewEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.CheckedAt.IsZero() {
		entry.CheckedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO previews (id, url, title, snippet, content_hash, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			snippet = excluded.snippet,
			content_hash = excluded.content_hash,
			checked_at = excluded.checked_at
	`, entry.ID, entry.URL, entry.Title, entry.Snippet, entry.ContentHash,
		entry.CheckedAt.Format(time.RFC3339))

	return err
}

// All returns every cached entry ordered by URL.
func (s *CacheService) All(ctx context.Context) ([]*secondbrain.PreviewEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, title, snippet, content_hash, checked_at
		FROM previews
		ORDER BY url
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*secondbrain.PreviewEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteByURL removes the entry for a normalized URL.
// Returns ENOTFOUND if no entry exists.
func (s *CacheService) DeleteByURL(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM previews WHERE url = ?`, url)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return secondbrain.Errorf(secondbrain.ENOTFOUND, "no cached preview for %q", url)
	}
	return nil
}

// scanEntry reads one previews row.
func scanEntry(scan func(dest ...any) error) (*secondbrain.PreviewEntry, error) {
	var entry secondbrain.PreviewEntry
	var checkedAt string

	if err := scan(&entry.ID, &entry.URL, &entry.Title, &entry.Snippet,
		&entry.ContentHash, &checkedAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, checkedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse checked_at: %w", err)
	}
	entry.CheckedAt = t
	return &entry, nil
}
