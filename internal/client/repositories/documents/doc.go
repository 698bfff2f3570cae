// Package documents is the local blob store: a SQLite table of document
// records, each holding the full binary payload and its metadata.
//
// The store has no notion of the current user. Visibility is decided by the
// ownership package on top of GetAll snapshots.
//
// Errors: write paths wrap common.ErrStorageWrite, read paths wrap
// common.ErrStorageRead, and lookups of a missing id return common.ErrNotFound.
package documents
