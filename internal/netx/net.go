// Package netx has HTTP response helpers used by the remote client.
package netx

import (
	"mime"
	"net/http"
	"strings"
)

// ContentKind classifies a response body by its Content-Type.
type ContentKind int

const (
	ContentOther ContentKind = iota
	ContentJSON
	ContentBinary
)

// Classify maps a Content-Type header value to a ContentKind. Missing or
// unparsable values are ContentOther.
func Classify(contentType string) ContentKind {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ContentOther
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		return ContentJSON
	case mt == "application/pdf", mt == "application/octet-stream", mt == "binary/octet-stream":
		return ContentBinary
	default:
		return ContentOther
	}
}

// DispositionFilename extracts the filename from a Content-Disposition
// header. RFC 5987 filename* values are decoded by mime.ParseMediaType.
func DispositionFilename(h http.Header) string {
	v := h.Get("Content-Disposition")
	if v == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// IsSuccess reports a 2xx status.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
