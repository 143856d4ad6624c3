package secondbrain

import "context"

// Resource is a fetched response with enough metadata to dispatch rendering
// by content type.
type Resource struct {
	// URL is the resource's final URL.
	URL string

	// ContentType is the raw Content-Type header value.
	ContentType string

	// Body is the response body.
	Body []byte
}

// Kind returns the content kind of the resource.
func (r *Resource) Kind() ContentKind {
	return KindOf(r.ContentType)
}

// Fetcher retrieves resources from URLs. Any failure, including a
// non-success HTTP status, is reported as an error; callers treat failure
// as "no preview available".
type Fetcher interface {
	// Fetch retrieves the resource at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Resource, error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
