package hover_test

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	secondbrain "github.com/rizkyilhampra/second-brain"
	"github.com/rizkyilhampra/second-brain/hover"
	"github.com/rizkyilhampra/second-brain/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// surfaceState records the calls a controller makes against its surface.
// Hide timers fire on their own goroutines, so access is guarded.
type surfaceState struct {
	mu       sync.Mutex
	inserted map[string]string // popover ID -> injected HTML
	active   map[string]bool
	scrolled map[string][]string // popover ID -> scroll targets
	removed  bool
}

func newTestSurface(links map[string][]secondbrain.Link) (*mock.Surface, *surfaceState) {
	state := &surfaceState{
		inserted: make(map[string]string),
		active:   make(map[string]bool),
		scrolled: make(map[string][]string),
	}
	surface := &mock.Surface{
		InsertPopoverFn: func(p *secondbrain.Popover, html string) error {
			state.mu.Lock()
			defer state.mu.Unlock()
			state.inserted[p.ID] = html
			return nil
		},
		SetActiveFn: func(id string, active bool) error {
			state.mu.Lock()
			defer state.mu.Unlock()
			state.active[id] = active
			return nil
		},
		ScrollToFn: func(popoverID, elementID string) error {
			state.mu.Lock()
			defer state.mu.Unlock()
			state.scrolled[popoverID] = append(state.scrolled[popoverID], elementID)
			return nil
		},
		InternalLinksFn: func(popoverID string) ([]secondbrain.Link, error) {
			return links[popoverID], nil
		},
		RemoveAllFn: func() error {
			state.mu.Lock()
			defer state.mu.Unlock()
			state.removed = true
			return nil
		},
	}
	return surface, state
}

func (s *surfaceState) isActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[id]
}

func (s *surfaceState) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

func (s *surfaceState) scrollTargets(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolled[id]
}

func testBase(t *testing.T) *url.URL {
	t.Helper()
	base, err := url.Parse("https://kb.example/")
	require.NoError(t, err)
	return base
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func htmlFetcher(count *int) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*secondbrain.Resource, error) {
			if count != nil {
				*count++
			}
			return &secondbrain.Resource{
				URL:         url,
				ContentType: "text/html; charset=utf-8",
				Body:        []byte("<html><body><article class=\"popover-hint\">hi</article></body></html>"),
			}, nil
		},
	}
}

func htmlBuilder() *mock.PreviewBuilder {
	return &mock.PreviewBuilder{
		BuildFn: func(res *secondbrain.Resource) (*secondbrain.Preview, error) {
			return &secondbrain.Preview{Kind: res.Kind(), HTML: "<p>hi</p>"}, nil
		},
	}
}

func TestController_HoverLink(t *testing.T) {
	t.Parallel()

	t.Run("shows_popover_for_internal_link", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		var fetches int
		c := hover.NewController(surface, htmlFetcher(&fetches), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{X: 10, Y: 10})
		require.NoError(t, err)

		assert.Equal(t, 1, fetches)
		assert.Equal(t, 1, state.insertCount())

		p, ok := c.Popover("https://kb.example/notes/a")
		require.True(t, ok)
		assert.True(t, p.Active)
		assert.Equal(t, 0, p.Depth)
		assert.Equal(t, secondbrain.ZIndexFor(0), p.ZIndex)
		assert.Equal(t, secondbrain.KindHTML, p.Kind)
		assert.True(t, state.isActive(p.ID))
		assert.Len(t, c.Stack(), 1)
	})

	t.Run("opted_out_link_is_a_noop", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		var fetches int
		c := hover.NewController(surface, htmlFetcher(&fetches), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/a", NoPreview: true}, secondbrain.Point{})
		require.NoError(t, err)

		assert.Zero(t, fetches)
		assert.Zero(t, state.insertCount())
	})

	t.Run("reuses_record_for_same_normalized_url", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		var fetches int
		c := hover.NewController(surface, htmlFetcher(&fetches), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		ctx := context.Background()
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/a?utm=x#Details"}, secondbrain.Point{}))

		assert.Equal(t, 1, fetches, "fragment and query variants share one record")
		assert.Equal(t, 1, state.insertCount())

		p, ok := c.Popover("https://kb.example/notes/a")
		require.True(t, ok)
		assert.Equal(t, []string{secondbrain.IDPrefix + "Details"}, state.scrollTargets(p.ID))
	})

	t.Run("nested_hover_stacks_above_parent", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		ctx := context.Background()
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))
		p0, ok := c.Popover("https://kb.example/notes/a")
		require.True(t, ok)

		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/b", Owner: p0.ID}, secondbrain.Point{}))
		p1, ok := c.Popover("https://kb.example/notes/b")
		require.True(t, ok)

		assert.Equal(t, 1, p1.Depth)
		assert.Greater(t, p1.ZIndex, p0.ZIndex)
		require.Len(t, c.Stack(), 2)
		assert.True(t, p0.Active)
		assert.True(t, p1.Active)
	})

	t.Run("hover_at_shallower_depth_clears_deeper", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		ctx := context.Background()
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))
		p0, _ := c.Popover("https://kb.example/notes/a")
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/b", Owner: p0.ID}, secondbrain.Point{}))
		p1, _ := c.Popover("https://kb.example/notes/b")

		// Another base-document link replaces the whole stack.
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l3", Href: "/notes/c"}, secondbrain.Point{}))

		require.Len(t, c.Stack(), 1)
		assert.False(t, p0.Active)
		assert.False(t, p1.Active)
		assert.False(t, state.isActive(p0.ID))
		assert.False(t, state.isActive(p1.ID))

		// Hidden records stay cached for reuse.
		p0again, ok := c.Popover("https://kb.example/notes/a")
		require.True(t, ok)
		assert.Equal(t, p0.ID, p0again.ID)
	})

	t.Run("depth_at_limit_is_a_noop", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		var fetches int
		c := hover.NewController(surface, htmlFetcher(&fetches), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithMaxDepth(1))

		ctx := context.Background()
		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))
		p0, _ := c.Popover("https://kb.example/notes/a")

		require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/b", Owner: p0.ID}, secondbrain.Point{}))

		assert.Equal(t, 1, fetches)
		assert.Len(t, c.Stack(), 1)
	})

	t.Run("stale_fetch_result_is_discarded", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		var c *hover.Controller
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, u string) (*secondbrain.Resource, error) {
				// The pointer moves to another link while this fetch is in
				// flight. The lock is not held here.
				if u == "https://kb.example/notes/slow" {
					err := c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/fast"}, secondbrain.Point{})
					if err != nil {
						return nil, err
					}
				}
				return &secondbrain.Resource{URL: u, ContentType: "text/html"}, nil
			},
		}
		c = hover.NewController(surface, fetcher, htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/slow"}, secondbrain.Point{})
		require.NoError(t, err)

		_, ok := c.Popover("https://kb.example/notes/slow")
		assert.False(t, ok, "superseded fetch must not materialize a popover")
		_, ok = c.Popover("https://kb.example/notes/fast")
		assert.True(t, ok)
		require.Len(t, c.Stack(), 1)
	})

	t.Run("opt_out_hover_supersedes_in_flight_fetch", func(t *testing.T) {
		t.Parallel()

		// Moving onto an opt-out link while a fetch is in flight makes the
		// opt-out link the active anchor, even though it never opens a
		// popover of its own. The fetch result is then stale and discarded.
		surface, _ := newTestSurface(nil)
		var c *hover.Controller
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, u string) (*secondbrain.Resource, error) {
				err := c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/plain", NoPreview: true}, secondbrain.Point{})
				if err != nil {
					return nil, err
				}
				return &secondbrain.Resource{URL: u, ContentType: "text/html"}, nil
			},
		}
		c = hover.NewController(surface, fetcher, htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/slow"}, secondbrain.Point{})
		require.NoError(t, err)

		_, ok := c.Popover("https://kb.example/notes/slow")
		assert.False(t, ok, "fetch superseded by an opt-out hover must not materialize a popover")
		assert.Empty(t, c.Stack())
	})

	t.Run("fetch_failure_degrades_to_no_popover", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*secondbrain.Resource, error) {
				return nil, secondbrain.Errorf(secondbrain.EUNAVAILABLE, "fetch failed with status 503")
			},
		}
		c := hover.NewController(surface, fetcher, htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{})

		require.NoError(t, err)
		assert.Zero(t, state.insertCount())
		assert.Empty(t, c.Stack())
	})

	t.Run("page_without_preview_content_degrades_to_no_popover", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		builder := &mock.PreviewBuilder{
			BuildFn: func(res *secondbrain.Resource) (*secondbrain.Preview, error) {
				return nil, secondbrain.Errorf(secondbrain.ENOTFOUND, "no preview-eligible content")
			},
		}
		c := hover.NewController(surface, htmlFetcher(nil), builder, &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{})

		require.NoError(t, err)
		assert.Zero(t, state.insertCount())
	})

	t.Run("missing_scroll_target_is_not_an_error", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		surface.ScrollToFn = func(popoverID, elementID string) error {
			return secondbrain.Errorf(secondbrain.ENOTFOUND, "no element %q in popover", elementID)
		}
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		err := c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/a#Gone"}, secondbrain.Point{})

		require.NoError(t, err)
		assert.Len(t, c.Stack(), 1)
	})

	t.Run("image_resource_keeps_its_kind", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*secondbrain.Resource, error) {
				return &secondbrain.Resource{URL: url, ContentType: "image/png"}, nil
			},
		}
		c := hover.NewController(surface, fetcher, htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()))

		require.NoError(t, c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/img/graph.png"}, secondbrain.Point{}))

		p, ok := c.Popover("https://kb.example/img/graph.png")
		require.True(t, ok)
		assert.Equal(t, secondbrain.KindImage, p.Kind)
	})
}

func TestController_HideLifecycle(t *testing.T) {
	t.Parallel()

	const hideDelay = 15 * time.Millisecond

	show := func(t *testing.T, c *hover.Controller, id, href, owner string) *secondbrain.Popover {
		t.Helper()
		require.NoError(t, c.HoverLink(context.Background(), secondbrain.Link{ID: id, Href: href, Owner: owner}, secondbrain.Point{}))
		identity, _, err := secondbrain.NormalizeTarget(testBase(t), href)
		require.NoError(t, err)
		p, ok := c.Popover(identity)
		require.True(t, ok)
		return p
	}

	t.Run("leave_link_schedules_delayed_hide", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		show(t, c, "l1", "/notes/a", "")
		c.LeaveLink(secondbrain.Link{ID: "l1", Href: "/notes/a"}, hover.Target{})

		assert.Equal(t, 1, c.PendingHides())
		assert.Eventually(t, func() bool {
			return len(c.Stack()) == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("leave_link_into_popover_is_a_noop", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		p0 := show(t, c, "l1", "/notes/a", "")
		c.LeaveLink(secondbrain.Link{ID: "l1", Href: "/notes/a"}, hover.Target{Popover: p0.ID})

		assert.Zero(t, c.PendingHides())
	})

	t.Run("entering_popover_cancels_its_pending_hide", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		p0 := show(t, c, "l1", "/notes/a", "")
		c.LeaveLink(secondbrain.Link{ID: "l1", Href: "/notes/a"}, hover.Target{})
		c.EnterPopover(p0.ID)

		assert.Zero(t, c.PendingHides())
		time.Sleep(3 * hideDelay)
		assert.Len(t, c.Stack(), 1)
		assert.True(t, p0.Active)
	})

	t.Run("leave_popover_into_deeper_popover_is_a_noop", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		p0 := show(t, c, "l1", "/notes/a", "")
		p1 := show(t, c, "l2", "/notes/b", p0.ID)

		c.LeavePopover(p0.ID, hover.Target{Popover: p1.ID})

		assert.Zero(t, c.PendingHides())
		assert.Len(t, c.Stack(), 2)
	})

	t.Run("leave_popover_into_shallower_hides_immediately", func(t *testing.T) {
		t.Parallel()

		surface, state := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		p0 := show(t, c, "l1", "/notes/a", "")
		p1 := show(t, c, "l2", "/notes/b", p0.ID)

		c.LeavePopover(p1.ID, hover.Target{Popover: p0.ID})

		require.Len(t, c.Stack(), 1)
		assert.False(t, p1.Active)
		assert.True(t, p0.Active)
		assert.False(t, state.isActive(p1.ID))
	})

	t.Run("leave_popover_elsewhere_hides_after_delay", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		p0 := show(t, c, "l1", "/notes/a", "")
		p1 := show(t, c, "l2", "/notes/b", p0.ID)

		c.LeavePopover(p1.ID, hover.Target{})

		assert.Equal(t, 1, c.PendingHides())
		assert.True(t, p0.Active, "shallower popovers stay visible")
		assert.Eventually(t, func() bool {
			return len(c.Stack()) == 1
		}, time.Second, 5*time.Millisecond)
		assert.False(t, p1.Active)
		assert.True(t, p0.Active)
	})

	t.Run("fresh_hover_cancels_queued_hides", func(t *testing.T) {
		t.Parallel()

		surface, _ := newTestSurface(nil)
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()), hover.WithHideDelay(hideDelay))

		show(t, c, "l1", "/notes/a", "")
		c.LeaveLink(secondbrain.Link{ID: "l1", Href: "/notes/a"}, hover.Target{})
		require.Equal(t, 1, c.PendingHides())

		// Re-hovering the same link rescinds the hide.
		show(t, c, "l1", "/notes/a", "")

		assert.Zero(t, c.PendingHides())
		time.Sleep(3 * hideDelay)
		assert.Len(t, c.Stack(), 1)
	})
}

func TestController_Bind(t *testing.T) {
	t.Parallel()

	t.Run("binds_each_base_link_once", func(t *testing.T) {
		t.Parallel()

		links := map[string][]secondbrain.Link{
			"": {{ID: "l1", Href: "/notes/a"}, {ID: "l2", Href: "/notes/b"}},
		}
		surface, _ := newTestSurface(links)

		var bound []string
		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()),
			hover.WithBindFunc(func(link secondbrain.Link) { bound = append(bound, link.ID) }))

		require.NoError(t, c.Bind(nil))
		require.NoError(t, c.Bind(nil))

		assert.Equal(t, []string{"l1", "l2"}, bound, "rebinding must not duplicate handlers")
	})

	t.Run("popover_links_get_bindings_recursively", func(t *testing.T) {
		t.Parallel()

		var p0ID string
		var bound []string
		links := map[string][]secondbrain.Link{}
		surface, _ := newTestSurface(links)
		surface.InternalLinksFn = func(popoverID string) ([]secondbrain.Link, error) {
			if popoverID != "" && popoverID == p0ID {
				return []secondbrain.Link{{ID: "nested", Href: "/notes/b", Owner: popoverID}}, nil
			}
			return nil, nil
		}
		surface.InsertPopoverFn = func(p *secondbrain.Popover, html string) error {
			p0ID = p.ID
			return nil
		}

		c := hover.NewController(surface, htmlFetcher(nil), htmlBuilder(), &mock.Placer{}, testBase(t),
			hover.WithLogger(quietLogger()),
			hover.WithBindFunc(func(link secondbrain.Link) { bound = append(bound, link.ID) }))

		require.NoError(t, c.HoverLink(context.Background(), secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))

		assert.Equal(t, []string{"nested"}, bound)
	})
}

func TestController_Teardown(t *testing.T) {
	t.Parallel()

	surface, state := newTestSurface(nil)
	var fetches int
	c := hover.NewController(surface, htmlFetcher(&fetches), htmlBuilder(), &mock.Placer{}, testBase(t),
		hover.WithLogger(quietLogger()), hover.WithHideDelay(50*time.Millisecond))

	ctx := context.Background()
	require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))
	p0, _ := c.Popover("https://kb.example/notes/a")
	require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l2", Href: "/notes/b", Owner: p0.ID}, secondbrain.Point{}))
	c.LeavePopover(p0.ID, hover.Target{})
	require.Equal(t, 1, c.PendingHides())

	c.Teardown()

	assert.Empty(t, c.Stack())
	assert.Zero(t, c.PendingHides())
	state.mu.Lock()
	removed := state.removed
	state.mu.Unlock()
	assert.True(t, removed, "teardown must remove all popover elements")

	_, ok := c.Popover("https://kb.example/notes/a")
	assert.False(t, ok, "records do not survive navigation")

	// The next page starts from scratch: same URL fetches again.
	require.NoError(t, c.HoverLink(ctx, secondbrain.Link{ID: "l1", Href: "/notes/a"}, secondbrain.Point{}))
	assert.Equal(t, 3, fetches)
}
