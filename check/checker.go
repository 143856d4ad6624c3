// Package check validates the hover previews of a built site. It walks the
// site's pages (sitemap-first, recursive walk as fallback), runs each page
// through the same preview pipeline the popover engine uses, and reports
// pages whose previews would be empty or broken, plus what changed since
// the previous run.
package check

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	secondbrain "github.com/rizkyilhampra/second-brain"
	"golang.org/x/sync/errgroup"
)

// snippetMaxLen bounds the markdown snippet stored per preview.
const snippetMaxLen = 280

// Checker orchestrates a preview check of a site.
type Checker struct {
	Sitemaps    secondbrain.SitemapService
	Fetcher     secondbrain.Fetcher
	Builder     secondbrain.PreviewBuilder
	Converter   secondbrain.Converter
	Cache       secondbrain.PreviewCache // optional; enables changed/unchanged accounting
	Links       secondbrain.LinkExtractor
	Limiter     secondbrain.DomainLimiter
	Concurrency int
	MaxPages    int
	RetryDelays []time.Duration
}

// Finding records a page whose preview is broken or missing.
type Finding struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Status classifies a checked preview against the cache.
type Status int

// Cache comparison outcomes.
const (
	StatusNew Status = iota
	StatusChanged
	StatusUnchanged
)

// Report holds the outcome of a preview check.
type Report struct {
	Checked   int       `json:"checked"`
	OK        int       `json:"ok"`
	New       int       `json:"new"`
	Changed   int       `json:"changed"`
	Unchanged int       `json:"unchanged"`
	Missing   []Finding `json:"missing,omitempty"` // pages with no preview-eligible content
	Failed    []Finding `json:"failed,omitempty"`  // pages that could not be fetched
}

// ProgressEvent reports progress during a check.
type ProgressEvent struct {
	Completed int
	Total     int
	URL       string
	Err       error
}

// ProgressFunc is a callback for reporting check progress.
type ProgressFunc func(event ProgressEvent)

// checkResult holds the outcome of checking a single URL.
type checkResult struct {
	url     string
	title   string
	snippet string
	hash    string
	missing bool
	err     error
}

// Check validates the previews of every page of the site rooted at
// siteURL. URLs come from the site's sitemap when one exists; otherwise
// the site is walked recursively from siteURL.
func (c *Checker) Check(ctx context.Context, siteURL string, filter *secondbrain.URLFilter, progress ProgressFunc) (*Report, error) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, siteURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	if len(urls) == 0 {
		if c.Links == nil {
			return &Report{}, nil
		}
		urls, err = c.walk(ctx, siteURL, filter)
		if err != nil {
			return nil, err
		}
	}

	results := c.checkURLs(ctx, urls, progress)
	return c.report(ctx, results)
}

// checkURLs fans the URLs out over a bounded worker pool and collects
// per-URL results in input order.
func (c *Checker) checkURLs(ctx context.Context, urls []string, progress ProgressFunc) []checkResult {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	results := make([]checkResult, len(urls))
	resultCh := make(chan int, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			i, u := i, u
			g.Go(func() error {
				results[i] = c.checkURL(gctx, u)
				resultCh <- i
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed int
	for i := range resultCh {
		completed++
		if progress != nil {
			progress(ProgressEvent{
				Completed: completed,
				Total:     len(urls),
				URL:       results[i].url,
				Err:       results[i].err,
			})
		}
	}

	return results
}

// checkURL fetches one page and runs it through the preview pipeline.
func (c *Checker) checkURL(ctx context.Context, pageURL string) checkResult {
	result := checkResult{url: pageURL}

	if c.Limiter != nil {
		if u, err := url.Parse(pageURL); err == nil {
			if err := c.Limiter.Wait(ctx, u.Host); err != nil {
				result.err = err
				return result
			}
		}
	}

	res, err := FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, nil, c.retryDelays())
	if err != nil {
		result.err = err
		return result
	}

	pv, err := c.Builder.Build(res)
	if err != nil {
		if secondbrain.ErrorCode(err) == secondbrain.ENOTFOUND {
			result.missing = true
			return result
		}
		result.err = err
		return result
	}

	result.title = pv.Title
	result.hash = hashContent(pv.HTML)
	result.snippet = c.snippet(pv)
	return result
}

// walk discovers page URLs by recursive traversal when no sitemap exists.
// Discovery responses are not kept: the check pass fetches every page
// again, so a sitemap-less site costs two GETs per page against the rate
// limiter in exchange for one uniform check path.
func (c *Checker) walk(ctx context.Context, siteURL string, filter *secondbrain.URLFilter) ([]string, error) {
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = 1000
	}

	frontier := NewFrontier(uint(maxPages)*2, 0.01)
	frontier.Push(secondbrain.DiscoveredLink{URL: siteURL, Source: "seed"})

	var pages []string
	for len(pages) < maxPages {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		if !filter.Match(link.URL) && link.Source != "seed" {
			continue
		}

		if c.Limiter != nil {
			if u, err := url.Parse(link.URL); err == nil {
				if err := c.Limiter.Wait(ctx, u.Host); err != nil {
					return nil, err
				}
			}
		}

		res, err := c.Fetcher.Fetch(ctx, link.URL)
		if err != nil {
			// Unreachable pages still get reported by the check pass.
			pages = append(pages, link.URL)
			continue
		}
		pages = append(pages, link.URL)

		if res.Kind() != secondbrain.KindHTML {
			continue
		}
		discovered, err := c.Links.ExtractLinks(string(res.Body), link.URL)
		if err != nil {
			continue
		}
		for _, d := range discovered {
			frontier.Push(d)
		}
	}

	return pages, nil
}

// report aggregates per-URL results and reconciles them with the cache.
func (c *Checker) report(ctx context.Context, results []checkResult) (*Report, error) {
	report := &Report{Checked: len(results)}

	for _, r := range results {
		switch {
		case r.err != nil:
			report.Failed = append(report.Failed, Finding{URL: r.url, Reason: r.err.Error()})
			continue
		case r.missing:
			report.Missing = append(report.Missing, Finding{URL: r.url, Reason: "no preview-eligible content"})
			continue
		}
		report.OK++

		if c.Cache == nil {
			continue
		}
		status, err := c.reconcile(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("preview cache: %w", err)
		}
		switch status {
		case StatusNew:
			report.New++
		case StatusChanged:
			report.Changed++
		case StatusUnchanged:
			report.Unchanged++
		}
	}

	sort.Slice(report.Missing, func(i, j int) bool { return report.Missing[i].URL < report.Missing[j].URL })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].URL < report.Failed[j].URL })

	return report, nil
}

// reconcile compares a result against the cached entry and upserts it.
func (c *Checker) reconcile(ctx context.Context, r checkResult) (Status, error) {
	status := StatusNew
	prev, err := c.Cache.FindByURL(ctx, r.url)
	switch {
	case err != nil && secondbrain.ErrorCode(err) != secondbrain.ENOTFOUND:
		return status, err
	case err == nil && prev.ContentHash == r.hash:
		status = StatusUnchanged
	case err == nil:
		status = StatusChanged
	}

	entry := &secondbrain.PreviewEntry{
		ID:          uuid.New().String(),
		URL:         r.url,
		Title:       r.title,
		Snippet:     r.snippet,
		ContentHash: r.hash,
		CheckedAt:   time.Now().UTC(),
	}
	if err := c.Cache.Upsert(ctx, entry); err != nil {
		return status, err
	}
	return status, nil
}

// snippet renders a bounded markdown snippet of the preview.
func (c *Checker) snippet(pv *secondbrain.Preview) string {
	if c.Converter == nil || pv.Kind != secondbrain.KindHTML {
		return ""
	}
	md, err := c.Converter.Convert(pv.HTML)
	if err != nil {
		return ""
	}
	if len(md) > snippetMaxLen {
		// Cut on a rune boundary; a split UTF-8 sequence would poison the
		// cache and the JSON report.
		cut := snippetMaxLen
		for cut > 0 && !utf8.RuneStart(md[cut]) {
			cut--
		}
		md = md[:cut]
	}
	return md
}

func (c *Checker) retryDelays() []time.Duration {
	if c.RetryDelays != nil {
		return c.RetryDelays
	}
	return DefaultRetryDelays()
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}
