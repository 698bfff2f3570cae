package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
)

// Phase is where an Index is in its lifecycle.
type Phase int

const (
	Unindexed Phase = iota
	Indexing
	Ready
)

func (p Phase) String() string {
	switch p {
	case Unindexed:
		return "unindexed"
	case Indexing:
		return "indexing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned by Search before Build has completed.
	ErrNotReady = errors.New("index not ready")
	// ErrSuperseded is returned by a Build whose document was replaced
	// while it ran.
	ErrSuperseded = errors.New("index superseded by another document")
)

// Index holds the extracted text of one open document.
type Index struct {
	mu    sync.RWMutex
	doc   render.Document
	gen   uint64
	phase Phase
	page  int
	pages []pageText
}

func NewIndex() *Index {
	return &Index{}
}

// Reset points the index at doc and discards everything built so far. A
// Build still running for the previous document ends with ErrSuperseded.
func (ix *Index) Reset(doc render.Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.doc = doc
	ix.gen++
	ix.phase = Unindexed
	ix.page = 0
	ix.pages = nil
}

// State reports the phase and, while indexing, the page being read.
func (ix *Index) State() (Phase, int) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.phase, ix.page
}

// Build extracts the text of every page. It is a no-op once Ready. On
// failure or cancellation the index returns to Unindexed.
func (ix *Index) Build(ctx context.Context) error {
	ix.mu.Lock()
	if ix.phase == Ready {
		ix.mu.Unlock()
		return nil
	}
	doc, gen := ix.doc, ix.gen
	ix.mu.Unlock()

	if doc == nil {
		return ErrNotReady
	}

	pages := make([]pageText, 0, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		if !ix.advance(gen, n) {
			return ErrSuperseded
		}
		if err := ctx.Err(); err != nil {
			ix.abort(gen)
			return err
		}

		pt, err := extract(ctx, doc, n)
		if err != nil {
			ix.abort(gen)
			return err
		}
		pages = append(pages, pt)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.gen != gen {
		return ErrSuperseded
	}
	ix.pages = pages
	ix.phase = Ready
	ix.page = 0
	return nil
}

func extract(ctx context.Context, doc render.Document, n int) (pageText, error) {
	page, err := doc.Page(n)
	if err != nil {
		return pageText{}, fmt.Errorf("page %d: %w", n, err)
	}
	items, err := page.TextContent(ctx)
	if err != nil {
		return pageText{}, fmt.Errorf("text of page %d: %w", n, err)
	}
	return layout(n, items), nil
}

func (ix *Index) advance(gen uint64, page int) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.gen != gen {
		return false
	}
	ix.phase = Indexing
	ix.page = page
	return true
}

func (ix *Index) abort(gen uint64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.gen == gen {
		ix.phase = Unindexed
		ix.page = 0
	}
}

// Search returns the matches of query in page order and, within a page,
// left to right. A blank query returns no matches.
func (ix *Index) Search(query string) ([]models.SearchMatch, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.phase != Ready {
		return nil, ErrNotReady
	}

	out := make([]models.SearchMatch, 0)
	re := compile(query)
	if re == nil {
		return out, nil
	}
	for _, p := range ix.pages {
		out = append(out, find(p, re)...)
	}
	return out, nil
}

// Highlights returns the overlay rectangles for the matches that fall on
// page. active is the index into matches of the current match, or -1.
func (ix *Index) Highlights(page int, matches []models.SearchMatch, active int, vp render.Viewport) []Highlight {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if page < 1 || page > len(ix.pages) {
		return []Highlight{}
	}
	return pageHighlights(ix.pages[page-1], matches, active, vp)
}

// SearchLocal indexes doc and runs query against it.
func SearchLocal(ctx context.Context, doc render.Document, query string) ([]models.SearchMatch, error) {
	if compile(query) == nil {
		return []models.SearchMatch{}, nil
	}
	ix := NewIndex()
	ix.Reset(doc)
	if err := ix.Build(ctx); err != nil {
		return nil, err
	}
	return ix.Search(query)
}
