package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"golang.org/x/text/unicode/norm"
)

const contextRunes = 50

// compile turns query into a case-insensitive literal matcher. A blank
// query yields nil.
func compile(query string) *regexp.Regexp {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(norm.NFC.String(query)))
}

// find returns the matches of re in p, left to right. Offsets and lengths
// count runes.
func find(p pageText, re *regexp.Regexp) []models.SearchMatch {
	locs := re.FindAllStringIndex(p.text, -1)
	if len(locs) == 0 {
		return nil
	}

	runes := []rune(p.text)
	out := make([]models.SearchMatch, 0, len(locs))

	byteAt, runeAt := 0, 0
	for _, loc := range locs {
		runeAt += utf8.RuneCountInString(p.text[byteAt:loc[0]])
		byteAt = loc[0]

		start := runeAt
		length := utf8.RuneCountInString(p.text[loc[0]:loc[1]])
		from := max(0, start-contextRunes)
		to := min(len(runes), start+length+contextRunes)

		out = append(out, models.SearchMatch{
			PageNumber:         p.number,
			MatchText:          p.text[loc[0]:loc[1]],
			CharOffset:         start,
			MatchLength:        length,
			SurroundingContext: string(runes[from:to]),
		})
	}
	return out
}
