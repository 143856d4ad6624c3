package mock

import (
	"context"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of secondbrain.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *secondbrain.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *secondbrain.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
