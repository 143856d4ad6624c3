package secondbrain

// Surface is the document mutation surface the popover engine renders
// onto. The engine's depth stack and record map are the source of truth;
// the surface is a projection of that state. The production implementation
// manipulates a parsed HTML document (goquery/); tests use mocks.
type Surface interface {
	// InsertPopover adds a popover subtree containing the rendered
	// fragment to the document.
	InsertPopover(p *Popover, html string) error

	// SetActive toggles a popover's visibility. Hiding preserves the
	// cached content; only full removal destroys it.
	SetActive(id string, active bool) error

	// SetPosition applies a placement as a 2D translation and updates the
	// popover's stacking order.
	SetPosition(id string, pt Point, zIndex int) error

	// ScrollTo scrolls the element with the given id inside the popover
	// into view, instantly and with a small top offset. Returns ENOTFOUND
	// if no such element exists in the popover.
	ScrollTo(popoverID, elementID string) error

	// InternalLinks returns the internal links found inside the popover
	// with the given ID, or the base document's links when popoverID is
	// empty. Opt-out links are returned with NoPreview set.
	InternalLinks(popoverID string) ([]Link, error)

	// PopoverSize reports the rendered size of a popover for placement.
	PopoverSize(id string) Size

	// Remove destroys a single popover subtree.
	Remove(id string) error

	// RemoveAll destroys every popover subtree in the document.
	RemoveAll() error
}
