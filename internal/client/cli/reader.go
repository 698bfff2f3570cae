package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/viewer"
)

// maxListedMatches caps how many in-document matches Find prints.
const maxListedMatches = 20

func (a *App) Page(ctx context.Context, n int) error {
	return a.view(ctx, a.viewer.SetPage(ctx, n))
}

func (a *App) NextPage(ctx context.Context) error {
	return a.view(ctx, a.viewer.NextPage(ctx))
}

func (a *App) PrevPage(ctx context.Context) error {
	return a.view(ctx, a.viewer.PrevPage(ctx))
}

// Zoom accepts in, out or reset.
func (a *App) Zoom(ctx context.Context, dir string) error {
	var err error
	switch dir {
	case "in", "+":
		err = a.viewer.ZoomIn(ctx)
	case "out", "-":
		err = a.viewer.ZoomOut(ctx)
	case "reset":
		err = a.viewer.ResetView(ctx)
	default:
		a.printf("Usage: zoom in|out|reset\n")
		return nil
	}
	return a.view(ctx, err)
}

func (a *App) Rotate(ctx context.Context) error {
	return a.view(ctx, a.viewer.Rotate(ctx))
}

func (a *App) Pan(ctx context.Context, dx, dy float64) error {
	a.viewer.Pan(dx, dy)
	return a.view(ctx, nil)
}

// Find searches the open document and lists the matches.
func (a *App) Find(ctx context.Context, query string) error {
	matches, err := a.viewer.Search(ctx, query)
	if err != nil {
		return a.view(ctx, err)
	}
	if strings.TrimSpace(query) == "" {
		a.printf("Search cleared\n")
		return nil
	}
	if len(matches) == 0 {
		a.printf("No matches for %q\n", query)
		return nil
	}

	a.printf("%d matches for %q\n", len(matches), query)
	for i, m := range matches {
		if i == maxListedMatches {
			a.printf("  ... %d more\n", len(matches)-maxListedMatches)
			break
		}
		a.printf("  [%d] p.%d  %s\n", i+1, m.PageNumber, oneLine(m.SurroundingContext))
	}
	a.printView()
	return nil
}

func (a *App) NextMatch(ctx context.Context) error {
	m, ok, err := a.viewer.NextMatch(ctx)
	return a.showMatch(ctx, m, ok, err)
}

func (a *App) PrevMatch(ctx context.Context) error {
	m, ok, err := a.viewer.PrevMatch(ctx)
	return a.showMatch(ctx, m, ok, err)
}

// SelectMatch jumps to match n as numbered by find (1-based).
func (a *App) SelectMatch(ctx context.Context, n int) error {
	m, ok, err := a.viewer.SelectMatch(ctx, n-1)
	return a.showMatch(ctx, m, ok, err)
}

func (a *App) showMatch(ctx context.Context, m models.SearchMatch, ok bool, err error) error {
	if err != nil {
		return a.view(ctx, err)
	}
	if !ok {
		a.printf("No matches\n")
		return nil
	}
	a.printf("p.%d  %s\n", m.PageNumber, oneLine(m.SurroundingContext))
	a.printView()
	return nil
}

// view reports err, if any, and prints the viewer state.
func (a *App) view(ctx context.Context, err error) error {
	if err != nil {
		if errors.Is(err, viewer.ErrNoDocument) {
			a.printf("No document open; use 'open <id>' first\n")
			return err
		}
		if !errors.Is(err, viewer.ErrRenderFailed) {
			notify.Failure(ctx, a.notifier, "Viewer", err)
		}
		return err
	}
	a.printView()
	return nil
}

func (a *App) printView() {
	s := a.viewer.State()
	if s.Name == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  page %d/%d  zoom %d%%", s.Name, s.Page, s.PageCount, int(math.Round(s.Zoom*100)))
	if s.Rotation != 0 {
		fmt.Fprintf(&b, "  rotated %d", s.Rotation)
	}
	if s.PanX != 0 || s.PanY != 0 {
		fmt.Fprintf(&b, "  offset %.0f,%.0f", s.PanX, s.PanY)
	}
	if s.Matches > 0 {
		fmt.Fprintf(&b, "  match %d/%d", s.MatchIndex+1, s.Matches)
		if n := len(a.viewer.Highlights()); n > 0 {
			fmt.Fprintf(&b, ", %d highlighted here", n)
		}
	}
	if !s.Ready {
		b.WriteString("  (not rendered)")
	}
	a.printf("%s\n", b.String())
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
