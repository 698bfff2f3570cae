package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/ownership"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
	"github.com/akash-siv/pen-and-paper/internal/client/repositories/documents"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/cryptox"
	"github.com/akash-siv/pen-and-paper/internal/filex"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

// LibraryService manages the documents the current session can see.
type LibraryService interface {
	// List returns the visible records, newest first.
	List(ctx context.Context, sess session.Session) ([]models.DocumentRecord, error)
	// Find resolves ref as a local record id or an owner document id among
	// the visible records.
	Find(ctx context.Context, sess session.Session, ref string) (*models.DocumentRecord, error)
	// Import validates, uploads and stores a document file.
	Import(ctx context.Context, sess session.Session, path string) (*ImportResult, error)
	ImportBytes(ctx context.Context, sess session.Session, name string, data []byte) (*ImportResult, error)
	Delete(ctx context.Context, sess session.Session, ref string) error
	// Export writes a visible record to dir and returns the file path.
	Export(ctx context.Context, sess session.Session, ref, dir string) (string, error)
	Storage(ctx context.Context) (models.StorageStats, error)
	// Sync materializes every authorized document that is not cached yet.
	Sync(ctx context.Context, sess session.Session) ([]MaterializeOutcome, error)
}

// ImportResult reports where an import ended up. When the upload failed the
// record is stored without an owner id and Session is unchanged.
type ImportResult struct {
	Record    *models.DocumentRecord
	Session   session.Session
	Pages     int
	Uploaded  bool
	UploadErr error
}

type libraryService struct {
	client     client.Client
	docs       documents.Repository
	sessions   *session.Store
	reconciler *Reconciler
	notifier   notify.Notifier
	log        logging.Logger
	maxPayload int64
}

func NewLibraryService(c client.Client, docs documents.Repository, sessions *session.Store, rec *Reconciler,
	n notify.Notifier, log logging.Logger, maxPayload int64) LibraryService {
	return &libraryService{
		client:     c,
		docs:       docs,
		sessions:   sessions,
		reconciler: rec,
		notifier:   n,
		log:        log.With("component", "library"),
		maxPayload: maxPayload,
	}
}

func (s *libraryService) List(ctx context.Context, sess session.Session) ([]models.DocumentRecord, error) {
	all, err := s.docs.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	visible := ownership.Visible(all, sess.Authorized)
	if hidden := ownership.Hidden(all, sess.Authorized); hidden > 0 {
		s.log.Info(ctx, "documents hidden from this session", "hidden", hidden, "visible", len(visible))
	}
	return visible, nil
}

func (s *libraryService) Find(ctx context.Context, sess session.Session, ref string) (*models.DocumentRecord, error) {
	visible, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range visible {
		if visible[i].ID == ref {
			return &visible[i], nil
		}
	}
	if rec, ok := ownership.Find(visible, sess.Authorized, ref); ok {
		return rec, nil
	}
	return nil, fmt.Errorf("document %s: %w", ref, common.ErrNotFound)
}

func (s *libraryService) Import(ctx context.Context, sess session.Session, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.maxPayload > 0 {
		r = io.LimitReader(f, s.maxPayload+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ImportBytes(ctx, sess, filepath.Base(path), data)
}

func (s *libraryService) ImportBytes(ctx context.Context, sess session.Session, name string, data []byte) (*ImportResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyPayload, name)
	}
	if s.maxPayload > 0 && int64(len(data)) > s.maxPayload {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", common.ErrPayloadTooLarge, name, s.maxPayload)
	}
	pages, err := render.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}

	name = filex.EnsureExt(filex.SanitizeFilename(name, "document.pdf"), ".pdf")
	res := &ImportResult{Session: sess, Pages: pages}

	ownerID, uploadErr := s.upload(ctx, sess, name, data)
	rec := &models.DocumentRecord{
		OwnerDocumentID: ownerID,
		Name:            name,
		MimeType:        common.PDFMimeType,
		Payload:         data,
	}
	if _, err := s.docs.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	res.Record = rec

	if uploadErr != nil {
		res.UploadErr = uploadErr
		s.log.Warn(ctx, "upload failed, stored without owner", "name", name, "id", rec.ID, "error", uploadErr)
		notify.Warnf(ctx, s.notifier, "%s was saved locally but not uploaded (%v); it stays hidden until uploaded", name, uploadErr)
		return res, nil
	}

	res.Uploaded = true
	res.Session, err = s.sessions.Authorize(ctx, sess, ownerID)
	if err != nil {
		s.log.Warn(ctx, "could not extend authorized set", "owner", ownerID, "error", err)
		res.Session = sess
		res.Session.Authorized = sess.Authorized.With(ownerID)
	}
	s.log.Info(ctx, "document imported", "name", name, "owner", ownerID, "pages", pages, "bytes", rec.ByteLength)
	return res, nil
}

func (s *libraryService) upload(ctx context.Context, sess session.Session, name string, data []byte) (string, error) {
	token, err := sess.BearerToken()
	if err != nil {
		return "", err
	}
	up, err := s.client.Upload(ctx, token, name, data)
	if err != nil {
		return "", err
	}
	if up.OwnerDocumentID == "" {
		return "", fmt.Errorf("%w: upload response without book id", common.ErrUploadService)
	}
	return up.OwnerDocumentID, nil
}

func (s *libraryService) Delete(ctx context.Context, sess session.Session, ref string) error {
	rec, err := s.Find(ctx, sess, ref)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteByID(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete %s: %w", rec.Name, err)
	}
	s.log.Info(ctx, "document deleted", "id", rec.ID, "owner", rec.OwnerDocumentID)
	return nil
}

func (s *libraryService) Export(ctx context.Context, sess session.Session, ref, dir string) (string, error) {
	rec, err := s.Find(ctx, sess, ref)
	if err != nil {
		return "", err
	}
	if !cryptox.Verify(rec.Payload, rec.Checksum) {
		return "", fmt.Errorf("export %s: %w", rec.Name, common.ErrCorrupted)
	}
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(abs, documentFilename(rec.Name, rec.OwnerDocumentID))
	if err := filex.WriteFileAtomic(path, rec.Payload); err != nil {
		return "", fmt.Errorf("export %s: %w", rec.Name, err)
	}
	s.log.Info(ctx, "document exported", "id", rec.ID, "path", path)
	return path, nil
}

func (s *libraryService) Storage(ctx context.Context) (models.StorageStats, error) {
	return s.docs.Stats(ctx)
}

func (s *libraryService) Sync(ctx context.Context, sess session.Session) ([]MaterializeOutcome, error) {
	if _, err := sess.BearerToken(); err != nil {
		return nil, err
	}
	if len(sess.Authorized) == 0 {
		return []MaterializeOutcome{}, nil
	}

	out := s.reconciler.MaterializeAll(ctx, sess, sess.Authorized)

	var failed, fetched int
	for _, o := range out {
		switch {
		case o.Err != nil:
			failed++
		case !o.Cached:
			fetched++
		}
	}
	s.log.Info(ctx, "sync finished", "documents", len(out), "downloaded", fetched, "failed", failed)
	return out, nil
}
