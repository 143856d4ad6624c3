package htmltomarkdown_test

import (
	"testing"

	secondbrain "github.com/rizkyilhampra/second-brain"
	"github.com/rizkyilhampra/second-brain/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts_preview_fragment", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`<h2>Details</h2><p>Some <strong>bold</strong> text and a <a href="https://kb.example/a">link</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "## Details")
		assert.Contains(t, md, "**bold**")
		assert.Contains(t, md, "[link](https://kb.example/a)")
	})

	t.Run("converts_tables", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`<table><tr><th>Col</th></tr><tr><td>Val</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Col |")
		assert.Contains(t, md, "| Val |")
	})

	t.Run("empty_input_is_invalid", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		_, err := c.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, secondbrain.EINVALID, secondbrain.ErrorCode(err))
	})
}
