package search

import "github.com/akash-siv/pen-and-paper/internal/client/models"

// Cursor tracks the active match in an ordered match list. The zero value
// is an empty cursor.
type Cursor struct {
	matches []models.SearchMatch
	index   int
}

// NewCursor starts at the first match, or at -1 when there are none.
func NewCursor(matches []models.SearchMatch) *Cursor {
	c := &Cursor{matches: matches, index: -1}
	if len(matches) > 0 {
		c.index = 0
	}
	return c
}

func (c *Cursor) Len() int {
	return len(c.matches)
}

// Index is the active position, -1 when there is no match.
func (c *Cursor) Index() int {
	if len(c.matches) == 0 {
		return -1
	}
	return c.index
}

func (c *Cursor) Matches() []models.SearchMatch {
	return c.matches
}

// Current returns the active match.
func (c *Cursor) Current() (models.SearchMatch, bool) {
	if c.Index() < 0 {
		return models.SearchMatch{}, false
	}
	return c.matches[c.index], true
}

// Next moves forward, wrapping to the first match after the last.
func (c *Cursor) Next() (models.SearchMatch, bool) {
	n := len(c.matches)
	if n == 0 {
		return models.SearchMatch{}, false
	}
	c.index = (c.index + 1) % n
	return c.matches[c.index], true
}

// Prev moves back, wrapping to the last match before the first.
func (c *Cursor) Prev() (models.SearchMatch, bool) {
	n := len(c.matches)
	if n == 0 {
		return models.SearchMatch{}, false
	}
	if c.index <= 0 {
		c.index = n - 1
	} else {
		c.index--
	}
	return c.matches[c.index], true
}

// Select makes match i active. Out-of-range values are ignored.
func (c *Cursor) Select(i int) (models.SearchMatch, bool) {
	if i < 0 || i >= len(c.matches) {
		return models.SearchMatch{}, false
	}
	c.index = i
	return c.matches[i], true
}

// Clear drops every match.
func (c *Cursor) Clear() {
	c.matches = nil
	c.index = -1
}
