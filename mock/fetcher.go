package mock

import (
	"context"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of secondbrain.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*secondbrain.Resource, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*secondbrain.Resource, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
