package hover

import (
	"sync"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Session ties the controller to page navigations in a single-page-app
// environment. On each "navigation completed" event it runs the cleanup
// callbacks registered during the previous page, binds hover behavior to
// the new document's top-level links, and registers the engine teardown to
// run on the next navigation. This guarantees no leaked timers, listeners
// or DOM survive across navigations in a long-lived session.
type Session struct {
	controller *Controller

	mu       sync.Mutex
	cleanups []func()
}

// NewSession creates a navigation lifecycle hook for the controller.
func NewSession(c *Controller) *Session {
	return &Session{controller: c}
}

// HandleNavigation is invoked on every navigation-completed event with the
// new document's surface. It tears down the previous page's popover state,
// then binds the new page's links.
func (s *Session) HandleNavigation(surface secondbrain.Surface) error {
	s.runCleanups()

	if err := s.controller.Bind(surface); err != nil {
		return err
	}
	s.AddCleanup(s.controller.Teardown)
	return nil
}

// AddCleanup registers a callback to run on the next navigation (or on
// Close). Mirrors the host page's register-cleanup mechanism.
func (s *Session) AddCleanup(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// Close runs any remaining cleanup callbacks. Call when the session ends.
func (s *Session) Close() error {
	s.runCleanups()
	return nil
}

func (s *Session) runCleanups() {
	s.mu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	// LIFO, matching registration order expectations of nested cleanups.
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
