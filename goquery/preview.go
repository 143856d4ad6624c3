// Package goquery provides the HTML-backed implementations of the preview
// pipeline: the preview builder that turns fetched resources into popover
// fragments, the document surface the popover engine renders onto, and
// internal-link extraction.
package goquery

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Ensure Builder implements secondbrain.PreviewBuilder at compile time.
var _ secondbrain.PreviewBuilder = (*Builder)(nil)

// Builder renders fetched resources into preview fragments, dispatching on
// content kind. Images and PDFs are embedded by URL; HTML pages are parsed,
// rewritten and reduced to their preview-eligible content.
type Builder struct {
	fallback secondbrain.Extractor
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFallback sets an extractor used when a page carries no
// preview-eligibility markers. Without a fallback such pages yield no
// preview.
func WithFallback(e secondbrain.Extractor) BuilderOption {
	return func(b *Builder) { b.fallback = e }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the preview fragment for a resource. Returns ENOTFOUND
// when an HTML page contains no preview-eligible content.
func (b *Builder) Build(res *secondbrain.Resource) (*secondbrain.Preview, error) {
	switch res.Kind() {
	case secondbrain.KindImage:
		return &secondbrain.Preview{
			Kind: secondbrain.KindImage,
			HTML: fmt.Sprintf(`<img class="popover-img" src="%s" loading="lazy" alt="">`, html.EscapeString(res.URL)),
		}, nil
	case secondbrain.KindPDF:
		return &secondbrain.Preview{
			Kind: secondbrain.KindPDF,
			HTML: fmt.Sprintf(`<iframe class="popover-pdf" src="%s"></iframe>`, html.EscapeString(res.URL)),
		}, nil
	}
	return b.buildHTML(res)
}

func (b *Builder) buildHTML(res *secondbrain.Resource) (*secondbrain.Preview, error) {
	base, err := url.Parse(res.URL)
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "invalid resource URL %q: %v", res.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	rewriteURLs(doc.Selection, base)
	prefixIDs(doc.Selection)

	fragment, err := renderHints(doc)
	if err != nil {
		return nil, err
	}

	if fragment == "" && b.fallback != nil {
		fragment, title, err = b.extractFallback(res, base, title)
		if err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(fragment) == "" {
		return nil, secondbrain.Errorf(secondbrain.ENOTFOUND, "no preview-eligible content at %s", res.URL)
	}

	return &secondbrain.Preview{
		Kind:  secondbrain.KindHTML,
		Title: title,
		HTML:  fragment,
	}, nil
}

// extractFallback runs main-content extraction on pages without explicit
// markers, then applies the same rewrite and id-prefix passes to the
// extracted fragment.
func (b *Builder) extractFallback(res *secondbrain.Resource, base *url.URL, title string) (string, string, error) {
	result, err := b.fallback.Extract(string(res.Body))
	if err != nil {
		return "", title, secondbrain.Errorf(secondbrain.ENOTFOUND, "content extraction failed for %s: %v", res.URL, err)
	}
	if strings.TrimSpace(result.ContentHTML) == "" {
		return "", title, nil
	}
	if title == "" {
		title = result.Title
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.ContentHTML))
	if err != nil {
		return "", title, secondbrain.Errorf(secondbrain.EINVALID, "failed to parse extracted content: %v", err)
	}
	rewriteURLs(doc.Selection, base)
	prefixIDs(doc.Selection)

	fragment, err := doc.Find("body").Html()
	if err != nil {
		return "", title, err
	}
	return fragment, title, nil
}

// renderHints serializes every element flagged as preview-eligible,
// preserving document order.
func renderHints(doc *goquery.Document) (string, error) {
	var sb strings.Builder
	var renderErr error
	doc.Find("." + secondbrain.HintClass).Each(func(_ int, sel *goquery.Selection) {
		h, err := goquery.OuterHtml(sel)
		if err != nil {
			renderErr = err
			return
		}
		sb.WriteString(h)
	})
	return sb.String(), renderErr
}

// rewriteURLs resolves every relative href and src against the target URL
// so injected content keeps working from the host page.
func rewriteURLs(sel *goquery.Selection, base *url.URL) {
	for _, attr := range []string{"href", "src"} {
		sel.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			raw, _ := s.Attr(attr)
			if raw == "" || isNonHTTPLink(raw) {
				return
			}
			ref, err := url.Parse(raw)
			if err != nil {
				return
			}
			s.SetAttr(attr, base.ResolveReference(ref).String())
		})
	}
}

// prefixIDs namespaces every element id in the fragment so injected
// content cannot collide with ids on the host page.
func prefixIDs(sel *goquery.Selection) {
	sel.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if id == "" || strings.HasPrefix(id, secondbrain.IDPrefix) {
			return
		}
		s.SetAttr("id", secondbrain.IDPrefix+id)
	})
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
