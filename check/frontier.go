package check

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Compile-time interface verification.
var _ secondbrain.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory walk queue with Bloom filter deduplication.
// URLs differing only by fragment are duplicates, matching the popover
// record identity. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	queue []secondbrain.DiscoveredLink
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewWithEstimates(n, fpRate),
	}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(link secondbrain.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(link.URL)
	if f.seen.TestString(url) {
		return false
	}
	f.seen.AddString(url)

	link.URL = url
	f.queue = append(f.queue, link)
	return true
}

// Pop returns the next queued link in arrival order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (secondbrain.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return secondbrain.DiscoveredLink{}, false
	}
	link := f.queue[0]
	f.queue = f.queue[1:]
	return link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.TestString(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
