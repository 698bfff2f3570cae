package services

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/filex"
)

// payload is a download reduced to bytes plus what to call them.
type payload struct {
	data     []byte
	filename string
	mimeType string
}

// normalize turns any download shape into document bytes for ownerID.
func normalize(res *models.DownloadResult, ownerID string, maxSize int64) (payload, error) {
	var p payload
	switch res.Kind {
	case models.DownloadBinary:
		if len(res.Body) == 0 {
			return p, fmt.Errorf("%w: %s: binary response has no body", common.ErrEmptyPayload, ownerID)
		}
		p = payload{data: res.Body, filename: res.Filename, mimeType: mediaType(res.ContentType)}

	case models.DownloadEnvelope:
		fd, ok := selectDescriptor(res.Files, ownerID)
		if !ok {
			if msgs := res.Failed[ownerID]; len(msgs) > 0 {
				return p, fmt.Errorf("%w: %s: %s", common.ErrPayloadNotFound, ownerID, strings.Join(msgs, "; "))
			}
			return p, fmt.Errorf("%w: %s: no matching file in %d descriptors", common.ErrPayloadNotFound, ownerID, len(res.Files))
		}
		data, err := decodeBase64(fd.Base64)
		if err != nil {
			return p, fmt.Errorf("%w: %s: %v", common.ErrPayloadNotFound, ownerID, err)
		}
		if len(data) == 0 {
			return p, fmt.Errorf("%w: %s: descriptor decodes to zero bytes", common.ErrEmptyPayload, ownerID)
		}
		p = payload{data: data, filename: fd.Filename, mimeType: fd.MimeType}

	case models.DownloadPathReference:
		return p, fmt.Errorf("%w: %s: server returned paths %v instead of bytes", common.ErrUnsupportedResponseShape, ownerID, res.Paths)

	default:
		return p, fmt.Errorf("%w: %s: kind %v", common.ErrUnsupportedResponseShape, ownerID, res.Kind)
	}

	if maxSize > 0 && int64(len(p.data)) > maxSize {
		return payload{}, fmt.Errorf("%w: %s: %d bytes", common.ErrPayloadTooLarge, ownerID, len(p.data))
	}
	if p.mimeType == "" || p.mimeType == "application/octet-stream" {
		p.mimeType = common.PDFMimeType
	}
	p.filename = documentFilename(p.filename, ownerID)
	return p, nil
}

// selectDescriptor picks the file for ownerID. The backend labels PDFs
// either by mime or, with a generic mime, only by extension.
func selectDescriptor(files []models.FileDescriptor, ownerID string) (models.FileDescriptor, bool) {
	for _, fd := range files {
		if fd.OwnerDocumentID != ownerID {
			continue
		}
		mt := mediaType(fd.MimeType)
		isPDFName := strings.EqualFold(filepath.Ext(fd.Filename), ".pdf")
		if mt == common.PDFMimeType || ((mt == "" || mt == "application/octet-stream") && isPDFName) {
			return fd, true
		}
	}
	return models.FileDescriptor{}, false
}

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// decodeBase64 accepts standard or URL alphabets, with or without padding,
// an optional data: URL prefix and embedded line breaks.
func decodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("decode base64: %w", lastErr)
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

// documentFilename sanitises name, falling back to "<ownerID>.pdf".
func documentFilename(name, ownerID string) string {
	fallback := filex.SanitizeFilename(ownerID, "document") + ".pdf"
	name = filex.SanitizeFilename(name, fallback)
	return filex.EnsureExt(name, ".pdf")
}
