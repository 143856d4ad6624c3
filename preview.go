package secondbrain

// Preview holds the rendered preview fragment for a fetched resource.
type Preview struct {
	// Kind is the content category of the fragment.
	Kind ContentKind

	// Title is the page title, when the resource is an HTML document.
	Title string

	// HTML is the fragment injected into a popover. For HTML resources the
	// fragment has relative URLs rewritten against the target, element ids
	// prefixed with IDPrefix, and only preview-eligible content retained.
	HTML string
}

// PreviewBuilder renders a fetched resource into a preview fragment.
type PreviewBuilder interface {
	// Build dispatches on the resource's content kind and returns the
	// preview fragment. Returns ENOTFOUND if the resource contains no
	// preview-eligible content; callers treat that the same as a fetch
	// failure (no popover is shown).
	Build(res *Resource) (*Preview, error)
}

// ExtractResult holds the extracted main content of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML, with boilerplate
	// (nav, footer, sidebar) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages. Used as a fallback when
// a page carries no explicit preview-eligibility markers.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter transforms HTML content into Markdown. Used by the preview
// checker to render human-readable snippets.
type Converter interface {
	Convert(html string) (string, error)
}
