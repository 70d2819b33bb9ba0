package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	t.Run("basic markdown", func(t *testing.T) {
		out, err := r.Render("# Heading\n\nSome **bold** text.")

		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("gfm tables", func(t *testing.T) {
		out, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |")

		require.NoError(t, err)
		assert.Contains(t, out, "<table>")
	})

	t.Run("script tags are stripped", func(t *testing.T) {
		out, err := r.Render("hello <script>alert('x')</script> world")

		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, "hello")
	})

	t.Run("event handler attributes are stripped", func(t *testing.T) {
		out, err := r.Render(`<img src="x.png" onerror="alert(1)">`)

		require.NoError(t, err)
		assert.NotContains(t, out, "onerror")
	})
}
