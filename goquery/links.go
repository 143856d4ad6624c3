package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Ensure LinkExtractor implements secondbrain.LinkExtractor at compile time.
var _ secondbrain.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor finds same-host links in HTML pages. The preview checker
// uses it to walk a site when no sitemap is available.
type LinkExtractor struct{}

// NewLinkExtractor creates a LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns the internal links it contains,
// deduplicated by resolved URL, in document order. External links and
// non-HTTP schemes (javascript:, mailto:, tel:, data:) are skipped.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]secondbrain.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []secondbrain.DiscoveredLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""

		target := resolved.String()
		if seen[target] {
			return
		}
		seen[target] = true

		links = append(links, secondbrain.DiscoveredLink{
			URL:    target,
			Text:   strings.TrimSpace(sel.Text()),
			Source: "page",
		})
	})

	return links, nil
}
