// Package common defines the error taxonomy and constants shared by the
// reader's storage, transport, rendering and service layers. Callers match
// errors with errors.Is / errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Local store.
	ErrStorageWrite = errors.New("storage write failed")
	ErrStorageRead  = errors.New("storage read failed")
	ErrNotFound     = errors.New("not found")
	ErrCorrupted    = errors.New("stored payload does not match its checksum")

	// Session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Remote payload normalisation.
	ErrEmptyPayload             = errors.New("empty payload")
	ErrPayloadNotFound          = errors.New("payload not found in response")
	ErrUnsupportedResponseShape = errors.New("unsupported response shape")
	ErrPayloadTooLarge          = errors.New("payload too large")

	// Remote services.
	ErrSearchService   = errors.New("search service error")
	ErrDownloadService = errors.New("download service error")
	ErrUploadService   = errors.New("upload service error")
	ErrAuthService     = errors.New("auth service error")

	// Rendering.
	ErrMalformedDocument = errors.New("malformed document")
	ErrRenderCancelled   = errors.New("render cancelled")
)

// ServiceError carries the status and message returned by a remote service.
// Kind is one of the Err*Service sentinels and is what errors.Is matches.
type ServiceError struct {
	Kind    error
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrStorageWrite, "StorageWrite"},
	{ErrStorageRead, "StorageRead"},
	{ErrNotFound, "NotFound"},
	{ErrNotAuthenticated, "NotAuthenticated"},
	{ErrEmptyPayload, "EmptyPayload"},
	{ErrPayloadNotFound, "PayloadNotFound"},
	{ErrUnsupportedResponseShape, "UnsupportedResponseShape"},
	{ErrPayloadTooLarge, "PayloadTooLarge"},
	{ErrSearchService, "SearchService"},
	{ErrDownloadService, "DownloadService"},
	{ErrUploadService, "UploadService"},
	{ErrAuthService, "AuthService"},
	{ErrMalformedDocument, "MalformedDocument"},
	{ErrRenderCancelled, "RenderCancelled"},
}

// KindOf names the taxonomy member err belongs to, or "Unknown".
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
