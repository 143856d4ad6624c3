package secondbrain

import (
	"mime"
	"net/url"
	"strings"
)

// DefaultMaxDepth bounds popover nesting. Depth 0 is a preview opened from
// the base document; hovering a link whose computed depth reaches the bound
// is a no-op.
const DefaultMaxDepth = 3

// zIndexBase is the stacking order of a depth-0 popover. Deeper popovers
// stack above their parents.
const zIndexBase = 100

// IDPrefix namespaces element ids inside injected preview fragments so they
// cannot collide with ids on the host page.
const IDPrefix = "popover-internal-"

// HintClass marks preview-eligible content. Only elements carrying this
// class are extracted from a fetched page into a popover.
const HintClass = "popover-hint"

// ContentKind categorizes popover content by the content type of the
// fetched resource.
type ContentKind string

// Content kinds dispatched on the Content-Type header.
const (
	KindHTML  ContentKind = "html"
	KindImage ContentKind = "image"
	KindPDF   ContentKind = "pdf"
)

// KindOf returns the content kind for a Content-Type header value.
// Anything that is not an image or a PDF is assumed to be HTML.
func KindOf(contentType string) ContentKind {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return KindHTML
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case mt == "application/pdf":
		return KindPDF
	default:
		return KindHTML
	}
}

// Popover represents a cached preview panel. A record is created on the
// first hover to a never-before-seen normalized URL during the current
// navigation, reused on subsequent hovers, and destroyed only on full
// navigation teardown. Ordinary hide only toggles Active, preserving the
// cached content and avoiding a refetch.
type Popover struct {
	// ID identifies the popover element in the document.
	ID string

	// URL is the normalized target (query and fragment stripped) the
	// popover previews. It is the record's cache identity: fragment-only
	// links to the same page share one record.
	URL string

	// Depth is the nesting level, 0 for a preview of a base-document link.
	Depth int

	// Kind is the content category rendered inside the popover.
	Kind ContentKind

	// Active reports whether the popover is currently visible.
	Active bool

	// ZIndex is the stacking order, derived deterministically from Depth.
	ZIndex int
}

// ZIndexFor returns the stacking order for a popover at the given depth.
func ZIndexFor(depth int) int {
	return zIndexBase + depth
}

// Link represents an internal link eligible for hover previews.
type Link struct {
	// ID identifies the link element in the document.
	ID string

	// Href is the link target as written in the document.
	Href string

	// Owner is the ID of the popover containing the link, or empty for a
	// link on the base document.
	Owner string

	// NoPreview is set when the link opts out of previews via the
	// data-no-popover attribute.
	NoPreview bool

	// Rect is the link's on-screen geometry, used for placement.
	Rect Rect
}

// NormalizeTarget resolves href against base and splits it into the
// popover cache identity and the scroll fragment. The identity strips the
// query and fragment so that links differing only by fragment share one
// popover record; the decoded fragment is returned separately for
// scroll-to-heading behavior.
func NormalizeTarget(base *url.URL, href string) (identity string, fragment string, err error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", "", Errorf(EINVALID, "invalid link target %q: %v", href, err)
	}

	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}

	// URL.Fragment is already decoded by net/url.
	fragment = resolved.Fragment

	resolved.Fragment = ""
	resolved.RawQuery = ""
	return resolved.String(), fragment, nil
}
