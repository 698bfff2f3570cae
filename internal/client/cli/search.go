package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
)

const defaultSearchLimit = 20

// tagList collects repeated -tag flags.
type tagList []string

func (t *tagList) String() string { return strings.Join(*t, ",") }

func (t *tagList) Set(v string) error {
	*t = append(*t, v)
	return nil
}

// Search runs a remote search across every document of the session. args
// are flags followed by the query words:
//
//	search [-limit n] [-offset n] [-tag t]... [-all-tags] [-date YYYY-MM-DD] [-doc id] words...
func (a *App) Search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.out)
	limit := fs.Int("limit", defaultSearchLimit, "hits per page (1-100)")
	offset := fs.Int("offset", 0, "hits to skip")
	doc := fs.String("doc", "", "only search the document with this book id")
	date := fs.String("date", "", "only pages dated YYYY-MM-DD")
	allTags := fs.Bool("all-tags", false, "require every -tag instead of any")
	var tags tagList
	fs.Var(&tags, "tag", "tag filter, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := models.SearchOptions{
		Limit:           *limit,
		Offset:          *offset,
		OwnerDocumentID: *doc,
		Tags:            tags,
		DateEquals:      *date,
	}
	if len(tags) > 0 {
		opts.TagsMode = models.TagsAny
		if *allTags {
			opts.TagsMode = models.TagsAll
		}
	}
	return a.runSearch(ctx, strings.Join(fs.Args(), " "), opts)
}

// More fetches the next page of the last search.
func (a *App) More(ctx context.Context) error {
	panel := a.search.Panel()
	if !panel.IsOpen() {
		a.printf("No search results open\n")
		return nil
	}
	next := panel.Offset() + len(panel.Hits())
	if next >= panel.Total() {
		a.printf("No more results\n")
		return nil
	}

	a.mu.Lock()
	opts := a.lastSearch
	a.mu.Unlock()
	opts.Offset = next
	return a.runSearch(ctx, panel.Query(), opts)
}

func (a *App) runSearch(ctx context.Context, query string, opts models.SearchOptions) error {
	if strings.TrimSpace(query) == "" {
		a.printf("Usage: search [flags] <query>\n")
		return nil
	}
	if _, err := a.search.SearchPage(ctx, a.currentSession(ctx), query, opts); err != nil {
		notify.Failure(ctx, a.notifier, "Search failed", err)
		return err
	}

	a.mu.Lock()
	a.lastSearch = opts
	a.mu.Unlock()
	return a.Results(ctx)
}

// Results prints the open results panel.
func (a *App) Results(context.Context) error {
	panel := a.search.Panel()
	if !panel.IsOpen() {
		a.printf("No search results open\n")
		return nil
	}

	hits := panel.Hits()
	if len(hits) == 0 {
		a.printf("No results for %q\n", panel.Query())
		return nil
	}
	first := panel.Offset() + 1
	a.printf("Results %d-%d of %d for %q\n", first, first+len(hits)-1, panel.Total(), panel.Query())
	for i, h := range hits {
		name := h.DocumentName
		if name == "" {
			name = h.OwnerDocumentID
		}
		a.printf("  [%d] %s p.%d  %s\n", i+1, name, h.PageNumber, oneLine(h.SnippetText))
		if len(h.Tags) > 0 || h.Date != "" {
			a.printf("      %s %s\n", strings.Join(h.Tags, ","), h.Date)
		}
	}
	return nil
}

// CloseResults closes the results panel.
func (a *App) CloseResults(context.Context) error {
	a.search.Panel().Close()
	return nil
}

// OpenHit opens the n-th hit (1-based) of the results panel at its page.
// The panel stays open so further hits can be opened.
func (a *App) OpenHit(ctx context.Context, n int) error {
	hit, ok := a.search.Panel().Hit(n - 1)
	if !ok {
		a.printf("No result %d; run 'results' to list them\n", n)
		return nil
	}

	if _, err := a.search.OpenHit(ctx, a.currentSession(ctx), hit, a.viewer); err != nil {
		notify.Failure(ctx, a.notifier, "Could not open result", err)
		return err
	}
	a.printView()
	return nil
}
