package search

import (
	"math"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
)

// Rect is a device-space rectangle; X, Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Highlight is one overlay rectangle. Active marks the rectangles of the
// current match, drawn outlined as well as filled.
type Highlight struct {
	Rect
	Match  int
	Active bool
}

// HighlightGeometry maps a text fragment's box through the viewport. The
// fragment's origin is on the baseline, so the box extends 0.8 of its height
// above it and 0.2 below. Both corners are mapped, which keeps the rectangle
// on the text under quarter-turn rotations.
func HighlightGeometry(item render.TextItem, vp render.Viewport) Rect {
	e, f := item.Transform[4], item.Transform[5]

	x0, y0 := vp.Apply(e, f+0.8*item.Height)
	x1, y1 := vp.Apply(e+item.Width, f-0.2*item.Height)

	return Rect{
		X: math.Min(x0, x1),
		Y: math.Min(y0, y1),
		W: math.Abs(x1 - x0),
		H: math.Abs(y1 - y0),
	}
}

// PageHighlights lays out items the way the index does and returns a
// rectangle for every fragment each match on page overlaps.
func PageHighlights(page int, items []render.TextItem, matches []models.SearchMatch, active int, vp render.Viewport) []Highlight {
	return pageHighlights(layout(page, items), matches, active, vp)
}

func pageHighlights(p pageText, matches []models.SearchMatch, active int, vp render.Viewport) []Highlight {
	out := make([]Highlight, 0)
	for i, m := range matches {
		if m.PageNumber != p.number {
			continue
		}
		start, end := m.CharOffset, m.CharOffset+m.MatchLength
		for j, sp := range p.spans {
			if start < sp.end && end > sp.start {
				out = append(out, Highlight{
					Rect:   HighlightGeometry(p.items[j], vp),
					Match:  i,
					Active: i == active,
				})
			}
		}
	}
	return out
}
