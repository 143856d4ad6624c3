package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/beevik/etree"
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Ensure SitemapService implements secondbrain.SitemapService.
var _ secondbrain.SitemapService = (*SitemapService)(nil)

// maxSitemapDepth bounds sitemapindex recursion.
const maxSitemapDepth = 4

// assetExtensions lists sitemap entries the preview pipeline has no
// rendering for. Pages, images and PDFs are checkable; style, script and
// font assets are dropped before the checker ever fetches them.
var assetExtensions = map[string]bool{
	".css":   true,
	".js":    true,
	".mjs":   true,
	".map":   true,
	".ico":   true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
	".otf":   true,
}

// SitemapService discovers the checkable pages of a knowledge-base site
// from its sitemaps. Discovered URLs come back as popover record
// identities (query and fragment stripped, deduplicated), so the checker
// visits each page exactly once and its cache keys line up with the ones
// the popover engine uses.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs finds the site's checkable page URLs. Sitemap locations
// come from robots.txt Sitemap: directives, falling back to /sitemap.xml;
// sitemap indexes are followed recursively. Returns an empty slice (not
// nil) when the site has no sitemap at all.
//
// When baseURL carries a non-root path (e.g. https://kb.example/notes),
// discovery is scoped to pages under that path.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *secondbrain.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "invalid site URL %q: %v", baseURL, err)
	}

	d := &discovery{
		service: s,
		prefix:  pagePrefix(base.Path),
		filter:  filter,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}

	declared := s.declaredSitemaps(ctx, base)
	if len(declared) == 0 {
		// No robots.txt directives; probe the conventional location. Its
		// absence means the site simply has no sitemap.
		fallback := base.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
		body, err := s.get(ctx, fallback)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return []string{}, nil
		}
		defer body.Close()

		d.visited[fallback] = true
		if err := d.parse(ctx, body, 0); err != nil {
			return nil, err
		}
		return d.pages, nil
	}

	for _, loc := range declared {
		if err := d.walk(ctx, loc, 0); err != nil {
			return nil, err
		}
	}
	return d.pages, nil
}

// declaredSitemaps reads the Sitemap: directives out of robots.txt. An
// unreachable or missing robots.txt yields none.
func (s *SitemapService) declaredSitemaps(ctx context.Context, base *url.URL) []string {
	robots := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	body, err := s.get(ctx, robots)
	if err != nil {
		return nil
	}
	defer body.Close()

	var locs []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		directive, value, found := strings.Cut(sc.Text(), ":")
		if !found || !strings.EqualFold(strings.TrimSpace(directive), "sitemap") {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			locs = append(locs, v)
		}
	}
	return locs
}

// get fetches a discovery resource, mapping HTTP status to domain errors.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, secondbrain.Errorf(secondbrain.ENOTFOUND, "no sitemap at %s", target)
		}
		return nil, secondbrain.Errorf(secondbrain.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

// discovery accumulates page identities across one DiscoverURLs call.
type discovery struct {
	service *SitemapService
	prefix  string
	filter  *secondbrain.URLFilter
	visited map[string]bool // sitemap URLs already walked
	seen    map[string]bool // page identities already admitted
	pages   []string
}

// walk fetches and parses one sitemap. Re-visits and over-deep recursion
// are no-ops.
func (d *discovery) walk(ctx context.Context, sitemapURL string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > maxSitemapDepth || d.visited[sitemapURL] {
		return nil
	}
	d.visited[sitemapURL] = true

	body, err := d.service.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	return d.parse(ctx, body, depth)
}

// parse handles one sitemap document: a <sitemapindex> recurses into its
// child sitemaps, anything else is read as a <urlset>.
func (d *discovery) parse(ctx context.Context, body io.Reader, depth int) error {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("sitemap has no root element")
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range doc.FindElements("//sitemap/loc") {
			child := strings.TrimSpace(loc.Text())
			if child == "" {
				continue
			}
			if err := d.walk(ctx, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, loc := range doc.FindElements("//url/loc") {
		d.admit(strings.TrimSpace(loc.Text()))
	}
	return nil
}

// admit reduces one sitemap entry to its popover record identity and keeps
// it when it is a checkable page inside scope. Entries differing only by
// query or fragment collapse to one page.
func (d *discovery) admit(loc string) {
	if loc == "" {
		return
	}
	identity, _, err := secondbrain.NormalizeTarget(nil, loc)
	if err != nil {
		return
	}
	if isAssetURL(identity) {
		return
	}
	if d.prefix != "" && !underPrefix(identity, d.prefix) {
		return
	}
	if !d.filter.Match(identity) {
		return
	}
	if d.seen[identity] {
		return
	}
	d.seen[identity] = true
	d.pages = append(d.pages, identity)
}

// pagePrefix normalizes a base path into a directory prefix for scoping;
// empty and "/" mean the whole site.
func pagePrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func underPrefix(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, prefix)
}

func isAssetURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return assetExtensions[strings.ToLower(path.Ext(u.Path))]
}
