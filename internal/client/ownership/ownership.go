// Package ownership decides which cached documents the current session may
// see. It never deletes: records outside the authorized set stay in the
// store for whichever user owns them, they are only left out of results.
package ownership

import "github.com/akash-siv/pen-and-paper/internal/client/models"

// Visible returns the records whose OwnerDocumentID is set and authorized,
// preserving input order. The input slice is not modified.
func Visible(records []models.DocumentRecord, set models.AuthorizedSet) []models.DocumentRecord {
	out := make([]models.DocumentRecord, 0, len(records))
	if len(set) == 0 {
		return out
	}

	allowed := index(set)
	for _, r := range records {
		if r.OwnerDocumentID == "" {
			continue
		}
		if _, ok := allowed[r.OwnerDocumentID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Hidden counts the records Visible leaves out.
func Hidden(records []models.DocumentRecord, set models.AuthorizedSet) int {
	return len(records) - len(Visible(records, set))
}

// Find returns the first visible record for ownerID.
func Find(records []models.DocumentRecord, set models.AuthorizedSet, ownerID string) (*models.DocumentRecord, bool) {
	if !set.Contains(ownerID) {
		return nil, false
	}
	for i := range records {
		if records[i].OwnerDocumentID == ownerID {
			r := records[i]
			return &r, true
		}
	}
	return nil, false
}

func index(set models.AuthorizedSet) map[string]struct{} {
	m := make(map[string]struct{}, len(set))
	for _, id := range set {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return m
}
