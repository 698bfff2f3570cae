// Package render is the rendering capability the viewer and the indexer
// consume: it opens document bytes, exposes pages with viewports and text
// content, and renders pages as cancelable tasks.
package render

import (
	"context"
	"image"
)

// Renderer opens raw document bytes.
type Renderer interface {
	// Open fails with common.ErrMalformedDocument when data is not a
	// readable document.
	Open(ctx context.Context, data []byte) (Document, error)
}

type Document interface {
	PageCount() int
	// Page returns page n, counting from 1.
	Page(n int) (Page, error)
}

type Page interface {
	Number() int
	Viewport(scale float64, rotation int) Viewport
	// TextContent returns the page's text fragments in content-stream order.
	TextContent(ctx context.Context) ([]TextItem, error)
	// Render starts rasterizing the page. The returned task is canceled with
	// ctx or Task.Cancel.
	Render(ctx context.Context, vp Viewport) *Task
}

// TextItem is a run of text as placed on the page. Transform is the text
// matrix [a b c d e f] in page space; e and f locate the baseline origin.
type TextItem struct {
	Text      string
	Transform [6]float64
	Width     float64
	Height    float64
}

// Frame is a rendered page.
type Frame struct {
	Page     int
	Viewport Viewport
	Image    image.Image
}
