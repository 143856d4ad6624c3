package goquery_test

import (
	"testing"

	"github.com/rizkyilhampra/second-brain/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns_same_host_links_in_document_order", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<a href="/notes/a">first</a>
			<a href="https://kb.example/notes/b">second</a>
			<a href="https://elsewhere.example/x">external</a>
			<a href="javascript:void(0)">script</a>
		</body></html>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(page, "https://kb.example/")

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://kb.example/notes/a", links[0].URL)
		assert.Equal(t, "first", links[0].Text)
		assert.Equal(t, "https://kb.example/notes/b", links[1].URL)
	})

	t.Run("deduplicates_by_resolved_url", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<a href="/notes/a">one</a>
			<a href="/notes/a#section">two</a>
			<a href="https://kb.example/notes/a">three</a>
		</body></html>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(page, "https://kb.example/")

		require.NoError(t, err)
		assert.Len(t, links, 1, "fragment variants resolve to the same page")
	})

	t.Run("relative_links_resolve_against_page_url", func(t *testing.T) {
		t.Parallel()

		page := `<a href="sibling">sibling</a>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(page, "https://kb.example/notes/current")

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://kb.example/notes/sibling", links[0].URL)
	})

	t.Run("invalid_base_url_is_invalid", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewLinkExtractor()
		_, err := e.ExtractLinks("<a href='/a'>a</a>", "://bad")

		require.Error(t, err)
	})

	t.Run("page_without_links_is_empty", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks("<html><body><p>nothing</p></body></html>", "https://kb.example/")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
