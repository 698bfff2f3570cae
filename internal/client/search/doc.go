// Package search indexes the text of an open document and answers
// in-document queries: literal, case-insensitive matches in page order,
// a wrapping match cursor, a debouncer for as-you-type queries, and the
// overlay geometry for highlighting matches on a rendered page.
package search
