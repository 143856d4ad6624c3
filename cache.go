package secondbrain

import (
	"context"
	"time"
)

// PreviewEntry is a cached preview check result for one page.
type PreviewEntry struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"` // normalized target URL
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"` // markdown rendering of the preview
	ContentHash string    `json:"contentHash"`
	CheckedAt   time.Time `json:"checkedAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *PreviewEntry) Validate() error {
	if e.URL == "" {
		return Errorf(EINVALID, "preview entry URL required")
	}
	return nil
}

// PreviewCache persists preview check results between runs so the checker
// can report which previews changed since the last check.
type PreviewCache interface {
	// FindByURL retrieves the cached entry for a normalized URL.
	// Returns ENOTFOUND if the URL has not been checked before.
	FindByURL(ctx context.Context, url string) (*PreviewEntry, error)

	// Upsert inserts or replaces the entry for its URL.
	Upsert(ctx context.Context, entry *PreviewEntry) error

	// All returns every cached entry ordered by URL.
	All(ctx context.Context) ([]*PreviewEntry, error)

	// DeleteByURL removes the entry for a normalized URL.
	// Returns ENOTFOUND if no entry exists.
	DeleteByURL(ctx context.Context, url string) error
}
