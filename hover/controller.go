// Package hover implements the popover engine: a depth-stacked popover
// lifecycle driven by hover intent, with content-type dispatch, geometry
// placement, and full teardown across page navigations.
//
// All mutable state (active anchor, depth stack, hide timers, attachment
// tracker, record cache) is owned by a single Controller instance. The
// rendering surface is a projection of the controller's state, never its
// source of truth.
package hover

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Target classifies the element the pointer is entering when it leaves a
// link or a popover. The zero value means "anything else".
type Target struct {
	// Popover is the ID of the popover being entered, if any.
	Popover string

	// Link is set when the pointer is entering an internal link.
	Link bool
}

// Controller orchestrates hover previews. On hover over an internal link
// it computes the nesting depth, cancels stale hide timers, fetches or
// reuses a popover, renders content by type, positions it, links it into
// the depth stack, and attaches the same hover behavior to internal links
// inside the new popover.
//
// Controller is safe for concurrent use. The fetch is the only suspension
// point; it runs outside the lock and its result is discarded when the
// active anchor generation moved on in the meantime.
type Controller struct {
	fetcher  secondbrain.Fetcher
	builder  secondbrain.PreviewBuilder
	placer   secondbrain.Placer
	logger   *slog.Logger
	base     *url.URL
	maxDepth int
	bindFn   func(secondbrain.Link)

	mu      sync.Mutex
	surface secondbrain.Surface
	gen     uint64
	active  string // ID of the link currently being hovered
	stack   *Stack
	timers  *HideTimers
	tracker *Tracker
	records map[string]*secondbrain.Popover // keyed by normalized URL
	byID    map[string]*secondbrain.Popover
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithMaxDepth bounds popover nesting. Defaults to
// secondbrain.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *Controller) { c.maxDepth = depth }
}

// WithHideDelay sets the delay before a scheduled hide fires.
// Defaults to DefaultHideDelay.
func WithHideDelay(d time.Duration) Option {
	return func(c *Controller) { c.timers = NewHideTimers(d) }
}

// WithBindFunc registers a callback invoked once per link when the link
// first receives a hover binding. Embedders use it to register real event
// handlers. The callback runs with the controller lock held and must not
// call back into the controller.
func WithBindFunc(fn func(secondbrain.Link)) Option {
	return func(c *Controller) { c.bindFn = fn }
}

// NewController creates a popover controller for a document rooted at
// base. The surface renders the controller's state; fetcher, builder and
// placer are the external collaborators of the preview pipeline.
func NewController(surface secondbrain.Surface, fetcher secondbrain.Fetcher, builder secondbrain.PreviewBuilder, placer secondbrain.Placer, base *url.URL, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		builder:  builder,
		placer:   placer,
		surface:  surface,
		base:     base,
		maxDepth: secondbrain.DefaultMaxDepth,
		stack:    NewStack(),
		tracker:  NewTracker(),
		records:  make(map[string]*secondbrain.Popover),
		byID:     make(map[string]*secondbrain.Popover),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.timers == nil {
		c.timers = NewHideTimers(DefaultHideDelay)
	}
	return c
}

// Bind attaches hover bindings to every internal link on the base
// document. When surface is non-nil it replaces the controller's surface
// first (a navigation swapped the document).
func (c *Controller) Bind(surface secondbrain.Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if surface != nil {
		c.surface = surface
	}
	return c.attachLocked("")
}

// HoverLink handles pointer-enter over an internal link. Fetch failures
// and pages without preview-eligible content degrade to "no popover
// shown"; they are logged and never surfaced. Stale results (the pointer
// moved on during the fetch) are discarded silently.
func (c *Controller) HoverLink(ctx context.Context, link secondbrain.Link, pointer secondbrain.Point) error {
	c.mu.Lock()

	// The opt-out link still becomes the active anchor, so an in-flight
	// fetch for a previous link is superseded and its result discarded.
	c.active = link.ID
	c.gen++
	gen := c.gen

	if link.NoPreview {
		c.mu.Unlock()
		return nil
	}

	depth := c.depthOfLocked(link)

	// A fresh hover intent supersedes queued hides at this depth and deeper.
	c.timers.CancelFrom(depth)

	if depth >= c.maxDepth {
		c.mu.Unlock()
		return nil
	}

	identity, fragment, err := secondbrain.NormalizeTarget(c.base, link.Href)
	if err != nil {
		c.mu.Unlock()
		c.logger.Debug("unparseable link target", "href", link.Href, "error", err)
		return nil
	}

	if p, ok := c.records[identity]; ok {
		err := c.showLocked(p, depth, link, pointer, fragment)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	// Suspension point: the active anchor may change while fetching.
	res, err := c.fetcher.Fetch(ctx, identity)
	if err != nil {
		c.logger.Warn("preview fetch failed", "url", identity, "error", err)
		return nil
	}

	pv, err := c.builder.Build(res)
	if err != nil {
		c.logger.Debug("no preview content", "url", identity, "error", err)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Stale intent: a different link became the active anchor while the
	// fetch was in flight. Expected and common, so not logged.
	if c.active != link.ID || c.gen != gen {
		return nil
	}
	// A concurrent hover materialized the record first.
	if _, ok := c.records[identity]; ok {
		return nil
	}

	p := &secondbrain.Popover{
		ID:   "popover-" + uuid.New().String(),
		URL:  identity,
		Kind: pv.Kind,
	}
	if err := c.surface.InsertPopover(p, pv.HTML); err != nil {
		return err
	}
	c.records[identity] = p
	c.byID[p.ID] = p

	return c.showLocked(p, depth, link, pointer, fragment)
}

// EnterPopover handles pointer-enter over a popover: a pending hide at its
// depth is canceled.
func (c *Controller) EnterPopover(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.byID[id]; ok {
		c.timers.Cancel(p.Depth)
	}
}

// LeavePopover handles pointer-leave from a popover, classifying the
// element being entered: a deeper popover means a nested hover is in
// progress (no-op); a same-depth popover or an internal link gets a
// delayed hide so the new hover can cancel it; a shallower popover clears
// this depth and deeper immediately; anything else gets a delayed hide.
func (c *Controller) LeavePopover(id string, entering Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return
	}

	if entering.Popover != "" {
		if q, ok := c.byID[entering.Popover]; ok {
			switch {
			case q.Depth > p.Depth:
				return
			case q.Depth == p.Depth:
				c.scheduleHideLocked(p.Depth)
				return
			default:
				c.hideFromLocked(p.Depth)
				return
			}
		}
	}

	c.scheduleHideLocked(p.Depth)
}

// LeaveLink handles pointer-leave from a link: entering a popover is a
// no-op (its own enter handler cancels the hide); anything else schedules
// a delayed hide at the depth the link's preview occupies.
func (c *Controller) LeaveLink(link secondbrain.Link, entering Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entering.Popover != "" {
		return
	}
	c.scheduleHideLocked(c.depthOfLocked(link))
}

// Teardown removes every popover from the document, flushes all pending
// hide timers, drops all hover bindings and cached records, and clears the
// active anchor. Called on navigation so no timers, listeners or DOM leak
// across pages in a long-lived session.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timers.Flush()
	c.stack.ClearAll()
	if err := c.surface.RemoveAll(); err != nil {
		c.logger.Warn("popover teardown left elements behind", "error", err)
	}
	c.tracker.Reset()
	c.records = make(map[string]*secondbrain.Popover)
	c.byID = make(map[string]*secondbrain.Popover)
	c.active = ""
	c.gen++
}

// Popover returns the record cached for a normalized URL.
func (c *Controller) Popover(url string) (*secondbrain.Popover, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.records[url]
	return p, ok
}

// Stack returns a snapshot of the currently visible popovers, shallowest
// first.
func (c *Controller) Stack() []*secondbrain.Popover {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*secondbrain.Popover, 0, c.stack.Len())
	for d := 0; d < c.stack.Len(); d++ {
		if p, ok := c.stack.At(d); ok {
			out = append(out, p)
		}
	}
	return out
}

// PendingHides returns the number of pending hide timers.
func (c *Controller) PendingHides() int {
	return c.timers.PendingCount()
}

// depthOfLocked computes the nesting depth a link's preview would occupy:
// 0 for a base-document link, owner depth + 1 for a link inside a popover.
// An unknown owner defaults to 0 rather than failing.
func (c *Controller) depthOfLocked(link secondbrain.Link) int {
	if link.Owner == "" {
		return 0
	}
	p, ok := c.byID[link.Owner]
	if !ok {
		return 0
	}
	return p.Depth + 1
}

// showLocked makes a popover visible at the given depth: clears that depth
// and deeper, links the record into the stack, positions it, scrolls to
// the requested fragment, and recursively attaches hover bindings to the
// internal links inside it.
func (c *Controller) showLocked(p *secondbrain.Popover, depth int, link secondbrain.Link, pointer secondbrain.Point, fragment string) error {
	// Already visible at a shallower level: restacking would duplicate the
	// record, so only honor the fragment scroll.
	if p.Active && p.Depth < depth {
		if fragment != "" {
			if err := c.surface.ScrollTo(p.ID, secondbrain.IDPrefix+fragment); err != nil {
				c.logger.Debug("scroll target missing", "popover", p.ID, "fragment", fragment)
			}
		}
		return c.attachLocked(p.ID)
	}

	cleared, _ := c.stack.Set(depth, p)
	for _, old := range cleared {
		if old.ID == p.ID {
			continue
		}
		if err := c.surface.SetActive(old.ID, false); err != nil {
			return err
		}
	}

	if err := c.surface.SetActive(p.ID, true); err != nil {
		return err
	}

	pos := c.placer.Place(link.Rect, c.surface.PopoverSize(p.ID), pointer)
	if err := c.surface.SetPosition(p.ID, pos, p.ZIndex); err != nil {
		return err
	}

	if fragment != "" {
		if err := c.surface.ScrollTo(p.ID, secondbrain.IDPrefix+fragment); err != nil {
			c.logger.Debug("scroll target missing", "popover", p.ID, "fragment", fragment)
		}
	}

	return c.attachLocked(p.ID)
}

// attachLocked wires hover bindings to the internal links inside a popover
// (or the base document for owner ""). Safe to call repeatedly; already
// bound links are skipped.
func (c *Controller) attachLocked(owner string) error {
	links, err := c.surface.InternalLinks(owner)
	if err != nil {
		return err
	}
	for _, link := range c.tracker.Attach(owner, links) {
		if c.bindFn != nil {
			c.bindFn(link)
		}
	}
	return nil
}

// scheduleHideLocked schedules a delayed clear of depth and deeper. The
// fired callback re-validates its epoch under the controller lock: a
// cancel that landed between timer expiry and callback execution makes it
// a no-op instead of hiding what a fresh hover just showed.
func (c *Controller) scheduleHideLocked(depth int) {
	c.timers.Schedule(depth, func(epoch uint64) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.timers.Current(depth, epoch) {
			return
		}
		c.hideFromLocked(depth)
	})
}

// hideFromLocked hides depth and deeper immediately, projecting the change
// onto the surface. Content stays cached in the document for reuse.
func (c *Controller) hideFromLocked(depth int) {
	for _, p := range c.stack.ClearFrom(depth) {
		if err := c.surface.SetActive(p.ID, false); err != nil {
			c.logger.Warn("popover hide failed", "popover", p.ID, "error", err)
		}
	}
}
