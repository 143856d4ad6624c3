package goquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Nominal popover dimensions, matching the fixed size the site CSS gives
// the popover panel. The document model has no layout engine, so placement
// works from the declared size.
const (
	popoverWidth  = 480
	popoverHeight = 320
)

// activeClass toggles popover visibility in CSS.
const activeClass = "active"

// Ensure Document implements secondbrain.Surface at compile time.
var _ secondbrain.Surface = (*Document)(nil)

// Document is the rendering surface for one page: a parsed HTML document
// the popover engine projects its state onto. Popover subtrees are
// appended to the body; visibility is a class toggle; placement is a
// translate transform. Safe for concurrent use.
type Document struct {
	mu       sync.Mutex
	doc      *goquery.Document
	base     *url.URL
	nextLink int
}

// NewDocument parses a page and prepares it as a popover surface. baseURL
// is the page's own URL; internal links are those sharing its host.
func NewDocument(pageHTML string, baseURL string) (*Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "invalid base URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, secondbrain.Errorf(secondbrain.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc, base: base}, nil
}

// InsertPopover appends a popover subtree containing the rendered fragment
// to the document body.
func (d *Document) InsertPopover(p *secondbrain.Popover, fragment string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.find(p.ID).Length() > 0 {
		return secondbrain.Errorf(secondbrain.ECONFLICT, "popover %s already in document", p.ID)
	}

	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		return secondbrain.Errorf(secondbrain.EINTERNAL, "document has no body")
	}

	body.AppendHtml(fmt.Sprintf(
		`<div id=%q class="popover" data-url=%q data-depth="%d"><div class="popover-inner" data-content-type=%q>%s</div></div>`,
		p.ID, p.URL, p.Depth, string(p.Kind), fragment,
	))
	return nil
}

// SetActive toggles a popover's visibility class. Content stays in the
// document either way.
func (d *Document) SetActive(id string, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.find(id)
	if sel.Length() == 0 {
		return secondbrain.Errorf(secondbrain.ENOTFOUND, "popover %s not in document", id)
	}
	if active {
		sel.AddClass(activeClass)
	} else {
		sel.RemoveClass(activeClass)
	}
	return nil
}

// SetPosition applies a placement as a fixed-position translation and
// updates the stacking order.
func (d *Document) SetPosition(id string, pt secondbrain.Point, zIndex int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.find(id)
	if sel.Length() == 0 {
		return secondbrain.Errorf(secondbrain.ENOTFOUND, "popover %s not in document", id)
	}
	sel.SetAttr("style", fmt.Sprintf("z-index: %d; transform: translate(%.0fpx, %.0fpx);", zIndex, pt.X, pt.Y))
	return nil
}

// ScrollTo records the element the popover should be scrolled to. The
// scroll is instant with a small top offset; the projection is a data
// attribute the page script consumes.
func (d *Document) ScrollTo(popoverID, elementID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	pop := d.find(popoverID)
	if pop.Length() == 0 {
		return secondbrain.Errorf(secondbrain.ENOTFOUND, "popover %s not in document", popoverID)
	}
	if pop.Find("#"+elementID).Length() == 0 {
		return secondbrain.Errorf(secondbrain.ENOTFOUND, "no element %q in popover %s", elementID, popoverID)
	}
	pop.SetAttr("data-scroll-target", elementID)
	return nil
}

// InternalLinks returns the internal links inside a popover, or the base
// document's links when popoverID is empty. Link identity is pinned with a
// data attribute so repeated calls return stable IDs.
func (d *Document) InternalLinks(popoverID string) ([]secondbrain.Link, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var scope *goquery.Selection
	if popoverID == "" {
		scope = d.doc.Selection
	} else {
		scope = d.find(popoverID)
		if scope.Length() == 0 {
			return nil, secondbrain.Errorf(secondbrain.ENOTFOUND, "popover %s not in document", popoverID)
		}
	}

	var links []secondbrain.Link
	scope.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		// Base-document scope excludes links that live inside popovers.
		if popoverID == "" && sel.ParentsFiltered(".popover").Length() > 0 {
			return
		}

		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if resolved := d.base.ResolveReference(ref); resolved.Host != d.base.Host {
			return
		}

		id, ok := sel.Attr("data-link-id")
		if !ok {
			id = "link-" + strconv.Itoa(d.nextLink)
			d.nextLink++
			sel.SetAttr("data-link-id", id)
		}

		noPreview := false
		if v, ok := sel.Attr("data-no-popover"); ok && v != "false" {
			noPreview = true
		}

		links = append(links, secondbrain.Link{
			ID:        id,
			Href:      href,
			Owner:     popoverID,
			NoPreview: noPreview,
		})
	})
	return links, nil
}

// PopoverSize reports the CSS-declared popover panel size.
func (d *Document) PopoverSize(string) secondbrain.Size {
	return secondbrain.Size{W: popoverWidth, H: popoverHeight}
}

// Remove destroys a single popover subtree.
func (d *Document) Remove(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.find(id)
	if sel.Length() == 0 {
		return secondbrain.Errorf(secondbrain.ENOTFOUND, "popover %s not in document", id)
	}
	sel.Remove()
	return nil
}

// RemoveAll destroys every popover subtree in the document.
func (d *Document) RemoveAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc.Find(".popover").Remove()
	return nil
}

// PopoverCount returns the number of popover subtrees in the document.
func (d *Document) PopoverCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(".popover").Length()
}

// Active reports whether a popover carries the visibility class.
func (d *Document) Active(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.find(id).HasClass(activeClass)
}

// ScrollTarget returns the recorded scroll target of a popover, if any.
func (d *Document) ScrollTarget(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := d.find(id).Attr("data-scroll-target")
	return v
}

// HTML serializes the current document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}

func (d *Document) find(popoverID string) *goquery.Selection {
	return d.doc.Find("#" + popoverID)
}
