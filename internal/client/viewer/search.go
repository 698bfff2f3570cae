package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/search"
)

// Find schedules an as-you-type search. Only the last query within the
// debounce window runs; short queries clear the results.
func (c *Controller) Find(query string) {
	c.debouncer.Submit(query)
}

func (c *Controller) runFind(ctx context.Context, query string) {
	matches, err := c.Search(ctx, query)
	if errors.Is(err, context.Canceled) || errors.Is(err, search.ErrSuperseded) {
		return
	}
	if c.opts.OnResults != nil {
		c.opts.OnResults(matches, err)
	}
}

// Search indexes the open document if needed, runs query, and moves to the
// page of the first match. A blank query clears the results.
func (c *Controller) Search(ctx context.Context, query string) ([]models.SearchMatch, error) {
	if strings.TrimSpace(query) == "" {
		c.ClearSearch()
		return []models.SearchMatch{}, nil
	}

	c.mu.Lock()
	doc := c.doc
	c.mu.Unlock()
	if doc == nil {
		return nil, ErrNoDocument
	}

	if err := c.index.Build(ctx); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, search.ErrSuperseded) {
			c.log.Warn(ctx, "indexing failed", "error", err)
			notify.Failure(ctx, c.notifier, "Search failed", err)
		}
		return nil, fmt.Errorf("index document: %w", err)
	}
	matches, err := c.index.Search(query)
	if err != nil {
		return nil, fmt.Errorf("search document: %w", err)
	}

	c.mu.Lock()
	if c.doc != doc {
		c.mu.Unlock()
		return nil, search.ErrSuperseded
	}
	c.query = query
	c.cursor = search.NewCursor(matches)
	first, ok := c.cursor.Current()
	c.mu.Unlock()

	c.log.Debug(ctx, "document searched", "query", query, "matches", len(matches))
	if ok {
		if err := c.SetPage(ctx, first.PageNumber); err != nil {
			return matches, err
		}
	}
	return matches, nil
}

// ClearSearch drops the query and its matches.
func (c *Controller) ClearSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	c.cursor.Clear()
}

func (c *Controller) Matches() []models.SearchMatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.Matches()
}

// CurrentMatch returns the active match and its index.
func (c *Controller) CurrentMatch() (models.SearchMatch, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.cursor.Current()
	return m, c.cursor.Index(), ok
}

// NextMatch and PrevMatch cycle through the matches, wrapping at either
// end, and show the page of the new active match.
func (c *Controller) NextMatch(ctx context.Context) (models.SearchMatch, bool, error) {
	c.mu.Lock()
	m, ok := c.cursor.Next()
	c.mu.Unlock()
	return c.showMatch(ctx, m, ok)
}

func (c *Controller) PrevMatch(ctx context.Context) (models.SearchMatch, bool, error) {
	c.mu.Lock()
	m, ok := c.cursor.Prev()
	c.mu.Unlock()
	return c.showMatch(ctx, m, ok)
}

// SelectMatch makes match i (zero-based) active and shows its page. An
// index outside the current matches reports ok=false.
func (c *Controller) SelectMatch(ctx context.Context, i int) (models.SearchMatch, bool, error) {
	c.mu.Lock()
	m, ok := c.cursor.Select(i)
	c.mu.Unlock()
	return c.showMatch(ctx, m, ok)
}

func (c *Controller) showMatch(ctx context.Context, m models.SearchMatch, ok bool) (models.SearchMatch, bool, error) {
	if !ok {
		return m, false, nil
	}
	if c.Page() == m.PageNumber {
		return m, true, nil
	}
	return m, true, c.SetPage(ctx, m.PageNumber)
}

// Highlights returns the overlay rectangles of the matches on the current
// page under the current zoom and rotation.
func (c *Controller) Highlights() []search.Highlight {
	c.mu.Lock()
	doc, pageNum, zoom, rotation := c.doc, c.page, c.zoom, c.rotation
	matches := c.cursor.Matches()
	active := c.cursor.Index()
	c.mu.Unlock()

	if doc == nil || len(matches) == 0 {
		return []search.Highlight{}
	}
	page, err := doc.Page(pageNum)
	if err != nil {
		return []search.Highlight{}
	}
	return c.index.Highlights(pageNum, matches, active, page.Viewport(zoom, rotation))
}
