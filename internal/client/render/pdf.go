package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/logging"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// US Letter, used when a page has no readable MediaBox.
var defaultMediaBox = [4]float64{0, 0, 612, 792}

// PDFRenderer validates documents with pdfcpu and reads pages and text with
// ledongthuc/pdf.
type PDFRenderer struct {
	log logging.Logger
}

func NewPDFRenderer(log logging.Logger) *PDFRenderer {
	return &PDFRenderer{log: log}
}

// PageCount validates data and returns its page count.
func PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty document", common.ErrMalformedDocument)
	}
	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: no pages", common.ErrMalformedDocument)
	}
	return n, nil
}

func (r *PDFRenderer) Open(ctx context.Context, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := PageCount(data)
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}

	r.log.Debug(ctx, "document opened", "pages", n, "bytes", len(data))
	return &pdfDocument{reader: reader, pages: n, log: r.log}, nil
}

type pdfDocument struct {
	// the reader caches objects internally and is not safe for concurrent use
	mu     sync.Mutex
	reader *pdf.Reader
	pages  int
	log    logging.Logger
}

func (d *pdfDocument) PageCount() int {
	return d.pages
}

func (d *pdfDocument) Page(n int) (Page, error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range 1..%d", n, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var p pdf.Page
	if err := safely(func() { p = d.reader.Page(n) }); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", common.ErrMalformedDocument, n, err)
	}

	pg := &pdfPage{doc: d, page: p, number: n, box: defaultMediaBox}
	if !p.V.IsNull() {
		_ = safely(func() {
			if box, ok := inheritedBox(p.V); ok {
				pg.box = box
			}
			pg.rotate = int(inherited(p.V, "Rotate").Int64())
		})
	}
	return pg, nil
}

type pdfPage struct {
	doc    *pdfDocument
	page   pdf.Page
	number int
	box    [4]float64
	rotate int
}

func (p *pdfPage) Number() int {
	return p.number
}

// Viewport adds rotation to the page's own /Rotate.
func (p *pdfPage) Viewport(scale float64, rotation int) Viewport {
	return NewViewport(p.box, scale, p.rotate+rotation)
}

func (p *pdfPage) TextContent(ctx context.Context) ([]TextItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.page.V.IsNull() {
		return []TextItem{}, nil
	}

	p.doc.mu.Lock()
	var content pdf.Content
	err := safely(func() { content = p.page.Content() })
	p.doc.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: text of page %d: %v", common.ErrMalformedDocument, p.number, err)
	}
	return groupGlyphs(content.Text), nil
}

func (p *pdfPage) Render(ctx context.Context, vp Viewport) *Task {
	return StartTask(ctx, func(ctx context.Context) (*Frame, error) {
		items, err := p.TextContent(ctx)
		if err != nil {
			return nil, err
		}
		img, err := rasterize(ctx, vp, items)
		if err != nil {
			return nil, err
		}
		return &Frame{Page: p.number, Viewport: vp, Image: img}, nil
	})
}

// groupGlyphs merges the per-glyph output of the content parser into runs:
// a run continues while glyphs share a baseline, font and size and follow
// each other without a gap wider than the font size.
func groupGlyphs(glyphs []pdf.Text) []TextItem {
	items := make([]TextItem, 0)

	var (
		cur   strings.Builder
		first pdf.Text
		lastX float64
		open  bool
	)
	flush := func() {
		if !open {
			return
		}
		text := strings.TrimRightFunc(cur.String(), isSpace)
		if strings.TrimSpace(text) != "" {
			items = append(items, TextItem{
				Text:      text,
				Transform: [6]float64{first.FontSize, 0, 0, first.FontSize, first.X, first.Y},
				Width:     lastX - first.X,
				Height:    first.FontSize,
			})
		}
		cur.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if open {
			sameLine := math.Abs(g.Y-first.Y) < 0.5
			sameFont := g.Font == first.Font && g.FontSize == first.FontSize
			gap := g.X - lastX
			if !sameLine || !sameFont || gap > first.FontSize || gap < -first.FontSize {
				flush()
			}
		}
		if !open {
			if strings.TrimSpace(g.S) == "" {
				continue
			}
			first = g
			open = true
		}
		cur.WriteString(g.S)
		lastX = g.X + g.W
	}
	flush()
	return items
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func inheritedBox(v pdf.Value) ([4]float64, bool) {
	mb := inherited(v, "MediaBox")
	if mb.Len() != 4 {
		return [4]float64{}, false
	}
	var box [4]float64
	for i := range box {
		box[i] = mb.Index(i).Float64()
	}
	// normalise so x0 < x1 and y0 < y1
	box[0], box[2] = math.Min(box[0], box[2]), math.Max(box[0], box[2])
	box[1], box[3] = math.Min(box[1], box[3]), math.Max(box[1], box[3])
	if box[2]-box[0] <= 0 || box[3]-box[1] <= 0 {
		return [4]float64{}, false
	}
	return box, true
}

// inherited looks key up on the page and then its ancestors.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if val := v.Key(key); !val.IsNull() {
			return val
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// safely turns a parser panic into an error; the pdf reader panics on
// malformed streams.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse: %v", r)
		}
	}()
	fn()
	return nil
}
