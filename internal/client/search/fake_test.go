package search

import (
	"context"
	"fmt"

	"github.com/akash-siv/pen-and-paper/internal/client/render"
)

// fakeDoc serves fixed text; each page string is split into fragments on "|".
type fakeDoc struct {
	pages [][]render.TextItem
	// block, when set, is waited on before a page returns its text.
	block   chan struct{}
	entered chan int
	failAt  int
}

func newFakeDoc(pages ...[]string) *fakeDoc {
	d := &fakeDoc{}
	for _, frags := range pages {
		items := make([]render.TextItem, 0, len(frags))
		x := 72.0
		for _, f := range frags {
			w := float64(len([]rune(f))) * 6
			items = append(items, render.TextItem{
				Text:      f,
				Transform: [6]float64{12, 0, 0, 12, x, 720},
				Width:     w,
				Height:    12,
			})
			x += w + 6
		}
		d.pages = append(d.pages, items)
	}
	return d
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(n int) (render.Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	return &fakePage{doc: d, n: n}, nil
}

type fakePage struct {
	doc *fakeDoc
	n   int
}

func (p *fakePage) Number() int { return p.n }

func (p *fakePage) Viewport(scale float64, rotation int) render.Viewport {
	return render.NewViewport([4]float64{0, 0, 612, 792}, scale, rotation)
}

func (p *fakePage) TextContent(ctx context.Context) ([]render.TextItem, error) {
	if p.doc.entered != nil {
		p.doc.entered <- p.n
	}
	if p.doc.block != nil {
		select {
		case <-p.doc.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.doc.failAt == p.n {
		return nil, fmt.Errorf("broken content stream")
	}
	return p.doc.pages[p.n-1], nil
}

func (p *fakePage) Render(ctx context.Context, vp render.Viewport) *render.Task {
	return render.StartTask(ctx, func(context.Context) (*render.Frame, error) {
		return &render.Frame{Page: p.n, Viewport: vp}, nil
	})
}
