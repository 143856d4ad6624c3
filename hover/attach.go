package hover

import (
	"sync"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Tracker records, per owning popover, which links already carry a hover
// binding, so repeated attachment (popover reuse, re-entry) never registers
// a link twice. Ownership is keyed by popover identity and cleared
// deterministically on teardown.
type Tracker struct {
	mu      sync.Mutex
	byOwner map[string]map[string]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{byOwner: make(map[string]map[string]struct{})}
}

// Attach records the given links as bound under owner and returns only the
// links that were not already bound. Calling Attach twice with the same
// links returns nothing the second time.
func (t *Tracker) Attach(owner string, links []secondbrain.Link) []secondbrain.Link {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.byOwner[owner]
	if !ok {
		set = make(map[string]struct{})
		t.byOwner[owner] = set
	}

	var fresh []secondbrain.Link
	for _, link := range links {
		if _, bound := set[link.ID]; bound {
			continue
		}
		set[link.ID] = struct{}{}
		fresh = append(fresh, link)
	}
	return fresh
}

// Bound reports whether the link is already bound under owner.
func (t *Tracker) Bound(owner, linkID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.byOwner[owner]
	if !ok {
		return false
	}
	_, bound := set[linkID]
	return bound
}

// Forget drops all bindings recorded under owner.
func (t *Tracker) Forget(owner string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byOwner, owner)
}

// Reset drops every recorded binding.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byOwner = make(map[string]map[string]struct{})
}
