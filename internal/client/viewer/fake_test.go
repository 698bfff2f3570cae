package viewer

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
	"github.com/akash-siv/pen-and-paper/internal/common"
)

// fakeRenderer opens any payload except "garbage" as its doc.
type fakeRenderer struct {
	doc *fakeDoc
}

func (r *fakeRenderer) Open(_ context.Context, data []byte) (render.Document, error) {
	if bytes.Equal(data, []byte("garbage")) {
		return nil, common.ErrMalformedDocument
	}
	return r.doc, nil
}

type fakeDoc struct {
	pages [][]render.TextItem

	mu      sync.Mutex
	hold    map[int]chan struct{}
	fail    map[int]error
	started chan int
	renders int
}

// newFakeDoc builds one page per argument; "|" separates text fragments.
func newFakeDoc(pages ...[]string) *fakeDoc {
	d := &fakeDoc{
		hold:    map[int]chan struct{}{},
		fail:    map[int]error{},
		started: make(chan int, 16),
	}
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

func blankDoc(n int) *fakeDoc {
	pages := make([][]string, n)
	for i := range pages {
		pages[i] = []string{fmt.Sprintf("page %d", i+1)}
	}
	return newFakeDoc(pages...)
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(n int) (render.Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	return &fakePage{doc: d, n: n}, nil
}

func (d *fakeDoc) holdPage(n int) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.hold[n] = ch
	return ch
}

func (d *fakeDoc) failPage(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail[n] = err
}

func (d *fakeDoc) renderCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders
}

type fakePage struct {
	doc *fakeDoc
	n   int
}

func (p *fakePage) Number() int { return p.n }

func (p *fakePage) Viewport(scale float64, rotation int) render.Viewport {
	return render.NewViewport([4]float64{0, 0, 612, 792}, scale, rotation)
}

func (p *fakePage) TextContent(context.Context) ([]render.TextItem, error) {
	return p.doc.pages[p.n-1], nil
}

func (p *fakePage) Render(ctx context.Context, vp render.Viewport) *render.Task {
	p.doc.mu.Lock()
	p.doc.renders++
	hold := p.doc.hold[p.n]
	fail := p.doc.fail[p.n]
	p.doc.mu.Unlock()

	return render.StartTask(ctx, func(ctx context.Context) (*render.Frame, error) {
		select {
		case p.doc.started <- p.n:
		default:
		}
		if hold != nil {
			select {
			case <-hold:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if fail != nil {
			return nil, fail
		}
		return &render.Frame{Page: p.n, Viewport: vp}, nil
	})
}

func record(name string) *models.DocumentRecord {
	return &models.DocumentRecord{ID: "rec-" + name, OwnerDocumentID: "b-" + name, Name: name, Payload: []byte("%PDF")}
}
