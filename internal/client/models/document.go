// Package models defines the client-side data types shared by the reader's
// store, transport, search and viewer layers.
package models

import (
	"slices"
	"time"
)

// DocumentRecord is the persisted unit of the local cache. Records are
// replaced, never patched: every field is fixed once Put succeeds.
type DocumentRecord struct {
	// ID is generated locally (UUIDv7) and is the primary key.
	ID string

	// OwnerDocumentID is the server-assigned book id. Empty for documents that
	// were stored without one; such records are never visible.
	OwnerDocumentID string

	Name       string
	MimeType   string
	ByteLength int64
	CreatedAt  time.Time

	// Checksum is the BLAKE2b-256 digest of Payload, set by the store.
	Checksum []byte

	Payload []byte
}

// AuthorizedSet lists the owner ids the current session may see.
type AuthorizedSet []string

// Contains reports whether id is in the set. The empty id is never contained.
func (s AuthorizedSet) Contains(id string) bool {
	if id == "" {
		return false
	}
	return slices.Contains(s, id)
}

// With returns a copy of s that includes id.
func (s AuthorizedSet) With(id string) AuthorizedSet {
	if id == "" || s.Contains(id) {
		return slices.Clone(s)
	}
	return append(slices.Clone(s), id)
}

// StorageStats summarises the local cache.
type StorageStats struct {
	Count      int
	TotalBytes int64
}
