package mock

import (
	"context"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.PreviewCache = (*PreviewCache)(nil)

// PreviewCache is a mock implementation of secondbrain.PreviewCache.
type PreviewCache struct {
	FindByURLFn   func(ctx context.Context, url string) (*secondbrain.PreviewEntry, error)
	UpsertFn      func(ctx context.Context, entry *secondbrain.PreviewEntry) error
	AllFn         func(ctx context.Context) ([]*secondbrain.PreviewEntry, error)
	DeleteByURLFn func(ctx context.Context, url string) error
}

func (c *PreviewCache) FindByURL(ctx context.Context, url string) (*secondbrain.PreviewEntry, error) {
	return c.FindByURLFn(ctx, url)
}

func (c *PreviewCache) Upsert(ctx context.Context, entry *secondbrain.PreviewEntry) error {
	return c.UpsertFn(ctx, entry)
}

func (c *PreviewCache) All(ctx context.Context) ([]*secondbrain.PreviewEntry, error) {
	return c.AllFn(ctx)
}

func (c *PreviewCache) DeleteByURL(ctx context.Context, url string) error {
	return c.DeleteByURLFn(ctx, url)
}
