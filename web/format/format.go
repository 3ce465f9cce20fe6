// Package format renders assistant message content for the chat view.
package format

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	lru "github.com/hashicorp/golang-lru"
)

// RelevantPagesTrailer formats the page references returned by a query as
// the suffix block appended to the answer text. An empty list suppresses
// the trailer entirely.
func RelevantPagesTrailer(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("\n\n\n**Relevant pages: %s**", strings.Join(parts, ", "))
}

// Renderer converts message markdown to HTML. Rendered output is cached by
// content because the whole transcript re-renders on every chat page load.
type Renderer struct {
	cache *lru.Cache
}

func NewRenderer(cacheSize int) (*Renderer, error) {
	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create render cache: %w", err)
	}
	return &Renderer{cache: c}, nil
}

// Render converts markdown content to HTML
func (r *Renderer) Render(content string) template.HTML {
	if cached, ok := r.cache.Get(content); ok {
		return cached.(template.HTML)
	}
	html := template.HTML(markdown.ToHTML([]byte(content), nil, nil))
	r.cache.Add(content, html)
	return html
}
