// Package markdown renders blog Markdown to sanitised HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML safe for direct embedding in pages.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a renderer with GitHub-flavoured extensions and a UGC
// sanitisation policy. Raw HTML in the source survives goldmark but is
// stripped by bluemonday, so author input can never inject script.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code", "pre")

	return &Renderer{
		md:        md,
		sanitizer: policy,
	}
}

// Render converts Markdown source to sanitised HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
