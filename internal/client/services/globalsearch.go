package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

// DocumentTarget is where OpenHit shows a document. Open returns once the
// document is loaded and its first page rendered.
type DocumentTarget interface {
	Open(ctx context.Context, rec *models.DocumentRecord) error
	PageCount() int
	SetPage(ctx context.Context, n int) error
}

// ResultsPanel holds the hits of the last remote search. It stays open while
// hits are opened and is only closed explicitly.
type ResultsPanel struct {
	mu     sync.RWMutex
	open   bool
	query  string
	total  int
	offset int
	hits   []models.GlobalSearchHit
}

func (p *ResultsPanel) show(query string, page *models.SearchPage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	p.query = query
	p.total = page.Total
	p.offset = page.Offset
	p.hits = page.Hits
}

func (p *ResultsPanel) IsOpen() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.open
}

func (p *ResultsPanel) Query() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.query
}

// Total is the server-side hit count, which may exceed len(Hits()).
func (p *ResultsPanel) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.total
}

func (p *ResultsPanel) Offset() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.offset
}

func (p *ResultsPanel) Hits() []models.GlobalSearchHit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.GlobalSearchHit(nil), p.hits...)
}

// Hit returns the i-th hit, counting from 0.
func (p *ResultsPanel) Hit(i int) (models.GlobalSearchHit, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i < 0 || i >= len(p.hits) {
		return models.GlobalSearchHit{}, false
	}
	return p.hits[i], true
}

func (p *ResultsPanel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	p.hits = nil
	p.query = ""
	p.total = 0
	p.offset = 0
}

// OpenHitResult describes where OpenHit landed.
type OpenHitResult struct {
	Record        *models.DocumentRecord
	RequestedPage int
	Page          int
	Clamped       bool
}

// GlobalSearch queries the remote search service and opens its hits through
// the reconciler.
type GlobalSearch struct {
	client   client.Client
	docs     Materializer
	notifier notify.Notifier
	log      logging.Logger
	panel    *ResultsPanel
}

func NewGlobalSearch(c client.Client, docs Materializer, n notify.Notifier, log logging.Logger) *GlobalSearch {
	return &GlobalSearch{
		client:   c,
		docs:     docs,
		notifier: n,
		log:      log.With("component", "global-search"),
		panel:    &ResultsPanel{},
	}
}

func (g *GlobalSearch) Panel() *ResultsPanel {
	return g.panel
}

// SearchRemote runs query across all of the user's documents.
func (g *GlobalSearch) SearchRemote(ctx context.Context, sess session.Session, query string, opts models.SearchOptions) ([]models.GlobalSearchHit, error) {
	page, err := g.SearchPage(ctx, sess, query, opts)
	if err != nil {
		return nil, err
	}
	return page.Hits, nil
}

// SearchPage is SearchRemote with the paging totals. A blank query returns
// an empty page without contacting the server.
func (g *GlobalSearch) SearchPage(ctx context.Context, sess session.Session, query string, opts models.SearchOptions) (*models.SearchPage, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &models.SearchPage{Hits: []models.GlobalSearchHit{}}, nil
	}

	page, err := g.client.Search(ctx, token, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	g.panel.show(query, page)
	g.log.Info(ctx, "remote search", "query", query, "hits", len(page.Hits), "total", page.Total, "took_ms", page.ProcessingTimeMs)
	return page, nil
}

// OpenHit materializes the hit's document, opens it in target and moves to
// the hit's page. A page outside the document is clamped into range and
// reported as a warning. The results panel is left as it was.
func (g *GlobalSearch) OpenHit(ctx context.Context, sess session.Session, hit models.GlobalSearchHit, target DocumentTarget) (*OpenHitResult, error) {
	rec, err := g.docs.Materialize(ctx, sess, hit.OwnerDocumentID)
	if err != nil {
		return nil, err
	}

	if err := target.Open(ctx, rec); err != nil {
		return nil, fmt.Errorf("open %s: %w", rec.Name, err)
	}

	res := &OpenHitResult{Record: rec, RequestedPage: hit.PageNumber, Page: hit.PageNumber}
	last := target.PageCount()
	switch {
	case res.Page > last:
		res.Page, res.Clamped = last, true
	case res.Page < 1:
		res.Page, res.Clamped = 1, true
	}

	if err := target.SetPage(ctx, res.Page); err != nil {
		return nil, fmt.Errorf("go to page %d: %w", res.Page, err)
	}

	if res.Clamped {
		notify.Warnf(ctx, g.notifier, "%s has %d pages; showing page %d instead of %d", rec.Name, last, res.Page, hit.PageNumber)
	}
	g.log.Debug(ctx, "opened hit", "owner", hit.OwnerDocumentID, "page", res.Page, "clamped", res.Clamped)
	return res, nil
}
