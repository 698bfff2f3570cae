// Package viewer drives an open document: page navigation, zoom, rotation
// and pan, superseding renders, and in-document search with highlights.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
	"github.com/akash-siv/pen-and-paper/internal/client/search"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

const (
	DefaultZoom = 1.2
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.2
)

var (
	ErrNoDocument     = errors.New("no document open")
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrRenderFailed marks render errors the controller has already
	// reported to its notifier.
	ErrRenderFailed = errors.New("render failed")
)

// Options configure a Controller.
type Options struct {
	// SearchDebounce is the window Find waits before searching.
	SearchDebounce time.Duration
	// OnResults, when set, receives the outcome of every debounced Find.
	OnResults func(matches []models.SearchMatch, err error)
}

// State is a snapshot of the viewer.
type State struct {
	Name       string
	Page       int
	PageCount  int
	Zoom       float64
	Rotation   int
	PanX, PanY float64
	Ready      bool
	Query      string
	Matches    int
	MatchIndex int
	Err        error
}

type Controller struct {
	renderer render.Renderer
	notifier notify.Notifier
	log      logging.Logger
	opts     Options

	mu       sync.Mutex
	rec      *models.DocumentRecord
	doc      render.Document
	page     int
	zoom     float64
	rotation int
	panX     float64
	panY     float64
	task     *render.Task
	frame    *render.Frame
	ready    bool
	lastErr  error

	index     *search.Index
	cursor    *search.Cursor
	query     string
	debouncer *search.Debouncer
}

func NewController(r render.Renderer, n notify.Notifier, log logging.Logger, opts Options) *Controller {
	c := &Controller{
		renderer: r,
		notifier: n,
		log:      log.With("component", "viewer"),
		opts:     opts,
		zoom:     DefaultZoom,
		index:    search.NewIndex(),
		cursor:   search.NewCursor(nil),
	}
	c.debouncer = search.NewDebouncer(opts.SearchDebounce, c.runFind, c.ClearSearch)
	return c
}

// Open loads rec and renders its first page. It returns once that render
// has finished or been superseded. Search state from a previous document is
// discarded.
func (c *Controller) Open(ctx context.Context, rec *models.DocumentRecord) error {
	doc, err := c.renderer.Open(ctx, rec.Payload)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return err
	}

	c.debouncer.Cancel()
	c.mu.Lock()
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
	c.rec = rec
	c.doc = doc
	c.page = 1
	c.frame = nil
	c.ready = false
	c.lastErr = nil
	c.query = ""
	c.cursor = search.NewCursor(nil)
	c.index.Reset(doc)
	c.mu.Unlock()

	c.log.Info(ctx, "document opened", "id", rec.ID, "name", rec.Name, "pages", doc.PageCount())
	return c.render(ctx)
}

// Close cancels any render and pending search.
func (c *Controller) Close() {
	c.debouncer.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

// Ready reports whether the current page has finished rendering.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return 0
	}
	return c.doc.PageCount()
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Frame returns the last completed render.
func (c *Controller) Frame() *render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func (c *Controller) Record() *models.DocumentRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Page:       c.page,
		Zoom:       c.zoom,
		Rotation:   c.rotation,
		PanX:       c.panX,
		PanY:       c.panY,
		Ready:      c.ready,
		Query:      c.query,
		Matches:    c.cursor.Len(),
		MatchIndex: c.cursor.Index(),
		Err:        c.lastErr,
	}
	if c.rec != nil {
		s.Name = c.rec.Name
	}
	if c.doc != nil {
		s.PageCount = c.doc.PageCount()
	}
	return s
}

// SetPage moves to page n, which must be within the document.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.doc == nil {
		c.mu.Unlock()
		return ErrNoDocument
	}
	if n < 1 || n > c.doc.PageCount() {
		count := c.doc.PageCount()
		c.mu.Unlock()
		return fmt.Errorf("%w: %d not in 1..%d", ErrPageOutOfRange, n, count)
	}
	c.page = n
	c.mu.Unlock()
	return c.render(ctx)
}

// NextPage and PrevPage stay put at the ends of the document.
func (c *Controller) NextPage(ctx context.Context) error {
	return c.step(ctx, 1)
}

func (c *Controller) PrevPage(ctx context.Context) error {
	return c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) error {
	c.mu.Lock()
	if c.doc == nil {
		c.mu.Unlock()
		return ErrNoDocument
	}
	next := c.page + delta
	if next < 1 || next > c.doc.PageCount() {
		c.mu.Unlock()
		return nil
	}
	c.page = next
	c.mu.Unlock()
	return c.render(ctx)
}

func (c *Controller) ZoomIn(ctx context.Context) error {
	return c.setZoom(ctx, ZoomStep)
}

func (c *Controller) ZoomOut(ctx context.Context) error {
	return c.setZoom(ctx, -ZoomStep)
}

func (c *Controller) setZoom(ctx context.Context, delta float64) error {
	c.mu.Lock()
	z := math.Round((c.zoom+delta)*10) / 10
	z = math.Max(MinZoom, math.Min(MaxZoom, z))
	changed := z != c.zoom
	c.zoom = z
	hasDoc := c.doc != nil
	c.mu.Unlock()

	if !changed || !hasDoc {
		return nil
	}
	return c.render(ctx)
}

// Rotate turns the page a quarter clockwise.
func (c *Controller) Rotate(ctx context.Context) error {
	c.mu.Lock()
	c.rotation = (c.rotation + 90) % 360
	hasDoc := c.doc != nil
	c.mu.Unlock()

	if !hasDoc {
		return nil
	}
	return c.render(ctx)
}

// Pan shifts the view; it does not re-render.
func (c *Controller) Pan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panX += dx
	c.panY += dy
}

// ResetView restores the default zoom, rotation and pan.
func (c *Controller) ResetView(ctx context.Context) error {
	c.mu.Lock()
	changed := c.zoom != DefaultZoom || c.rotation != 0
	c.zoom = DefaultZoom
	c.rotation = 0
	c.panX, c.panY = 0, 0
	hasDoc := c.doc != nil
	c.mu.Unlock()

	if !changed || !hasDoc {
		return nil
	}
	return c.render(ctx)
}

// render draws the current page, cancelling the render it supersedes. A
// cancelled or superseded render returns nil; a real failure is kept as the
// viewer error and reported.
func (c *Controller) render(ctx context.Context) error {
	c.mu.Lock()
	if c.doc == nil {
		c.mu.Unlock()
		return ErrNoDocument
	}
	if c.task != nil {
		c.task.Cancel()
	}
	pageNum, zoom, rotation, doc := c.page, c.zoom, c.rotation, c.doc
	c.ready = false
	c.mu.Unlock()

	page, err := doc.Page(pageNum)
	if err != nil {
		return c.renderFailed(ctx, pageNum, err)
	}
	vp := page.Viewport(zoom, rotation)
	task := page.Render(ctx, vp)

	c.mu.Lock()
	if c.doc != doc || c.page != pageNum || c.zoom != zoom || c.rotation != rotation {
		// the view changed before this task was registered
		c.mu.Unlock()
		task.Cancel()
		return nil
	}
	if c.task != nil {
		c.task.Cancel()
	}
	c.task = task
	c.mu.Unlock()

	frame, err := task.Wait()

	c.mu.Lock()
	if c.task != task {
		c.mu.Unlock()
		return nil
	}
	c.task = nil
	if errors.Is(err, common.ErrRenderCancelled) {
		c.mu.Unlock()
		c.log.Debug(ctx, "render cancelled", "page", pageNum)
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		return c.renderFailed(ctx, pageNum, err)
	}
	c.frame = frame
	c.ready = true
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

func (c *Controller) renderFailed(ctx context.Context, page int, err error) error {
	err = fmt.Errorf("%w: page %d: %w", ErrRenderFailed, page, err)
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	c.log.Warn(ctx, "render failed", "page", page, "error", err)
	notify.Failure(ctx, c.notifier, "Failed to render PDF page", err)
	return err
}
