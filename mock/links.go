package mock

import (
	"context"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of secondbrain.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]secondbrain.DiscoveredLink, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]secondbrain.DiscoveredLink, error) {
	return e.ExtractLinksFn(html, baseURL)
}

var _ secondbrain.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of secondbrain.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
