package models

// SearchMatch is one hit of an in-document search. CharOffset and
// MatchLength count runes in the page text.
type SearchMatch struct {
	PageNumber         int
	MatchText          string
	CharOffset         int
	MatchLength        int
	SurroundingContext string
}

// GlobalSearchHit is a result of the remote cross-document search.
type GlobalSearchHit struct {
	PageID          string
	OwnerDocumentID string
	DocumentName    string
	PageNumber      int
	SnippetText     string
	Tags            []string
	Date            string
}

// TagsMode combines tag filters.
type TagsMode string

const (
	TagsAny TagsMode = "or"
	TagsAll TagsMode = "and"
)

// SearchOptions are the paging and filter options of a remote search.
// Zero values mean "not set"; Limit 0 means the server default.
type SearchOptions struct {
	Limit           int
	Offset          int
	OwnerDocumentID string
	Tags            []string
	TagsMode        TagsMode
	DateEquals      string
}

// SearchPage is a page of remote search results.
type SearchPage struct {
	Query            string
	Total            int
	Limit            int
	Offset           int
	ProcessingTimeMs int
	Hits             []GlobalSearchHit
}
