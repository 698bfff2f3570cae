package search

import (
	"strings"
	"unicode/utf8"

	"github.com/akash-siv/pen-and-paper/internal/client/render"
	"golang.org/x/text/unicode/norm"
)

// span is the rune range [start, end) a fragment occupies in page text.
type span struct {
	start, end int
}

// pageText is the searchable text of one page and where each fragment sits.
type pageText struct {
	number int
	text   string
	items  []render.TextItem
	spans  []span
}

// layout joins fragments with a single space, in the order the renderer
// produced them. Each fragment is NFC-normalised on its own so spans stay
// aligned with the joined text.
func layout(number int, items []render.TextItem) pageText {
	var b strings.Builder
	spans := make([]span, len(items))
	pos := 0
	for i, it := range items {
		if i > 0 {
			b.WriteByte(' ')
			pos++
		}
		s := norm.NFC.String(it.Text)
		b.WriteString(s)
		n := utf8.RuneCountInString(s)
		spans[i] = span{start: pos, end: pos + n}
		pos += n
	}
	return pageText{number: number, text: b.String(), items: items, spans: spans}
}
