package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/viewer"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/shared"
)

// List prints the cached documents the session can see, newest first.
func (a *App) List(ctx context.Context) error {
	sess := a.currentSession(ctx)
	recs, err := a.library.List(ctx, sess)
	if err != nil {
		notify.Failure(ctx, a.notifier, "Listing documents failed", err)
		return err
	}
	if len(recs) == 0 {
		a.printf("No cached documents\n")
		return nil
	}
	for _, r := range recs {
		a.printf("%-12s %-36s %9s  %s\n", r.OwnerDocumentID, r.Name, shared.FormatFileSize(r.ByteLength), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// Open shows a document by local id or book id. A book id of the session
// that is not cached yet is downloaded first.
func (a *App) Open(ctx context.Context, ref string) error {
	sess := a.currentSession(ctx)

	rec, err := a.library.Find(ctx, sess, ref)
	if errors.Is(err, common.ErrNotFound) && sess.Authorized.Contains(ref) {
		rec, err = a.docs.Materialize(ctx, sess, ref)
	}
	if err != nil {
		notify.Failure(ctx, a.notifier, "Could not open "+ref, err)
		return err
	}

	if err := a.viewer.Open(ctx, rec); err != nil {
		if !errors.Is(err, viewer.ErrRenderFailed) {
			notify.Failure(ctx, a.notifier, "Could not open "+rec.Name, err)
		}
		return err
	}
	a.printView()
	return nil
}

func (a *App) Import(ctx context.Context, path string) error {
	res, err := a.library.Import(ctx, a.currentSession(ctx), path)
	if err != nil {
		notify.Failure(ctx, a.notifier, "Import failed", err)
		return err
	}
	a.setSession(res.Session)
	if res.Uploaded {
		notify.Successf(ctx, a.notifier, "Imported %s as %s (%d pages)", res.Record.Name, res.Record.OwnerDocumentID, res.Pages)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	if err := a.library.Delete(ctx, a.currentSession(ctx), ref); err != nil {
		notify.Failure(ctx, a.notifier, "Delete failed", err)
		return err
	}
	notify.Successf(ctx, a.notifier, "Deleted %s from the local cache", ref)
	return nil
}

// Export writes a cached document to dir, or to the configured export
// folder when dir is empty.
func (a *App) Export(ctx context.Context, ref, dir string) error {
	if dir == "" {
		dir = a.config.ExportDir
	}
	path, err := a.library.Export(ctx, a.currentSession(ctx), ref, dir)
	if err != nil {
		notify.Failure(ctx, a.notifier, "Export failed", err)
		return err
	}
	notify.Successf(ctx, a.notifier, "Exported to %s", path)
	return nil
}

func (a *App) Storage(ctx context.Context) error {
	st, err := a.library.Storage(ctx)
	if err != nil {
		notify.Failure(ctx, a.notifier, "Reading storage failed", err)
		return err
	}
	a.printf("%d documents cached, %s\n", st.Count, shared.FormatFileSize(st.TotalBytes))
	return nil
}

// Sync downloads every document of the session that is not cached yet and
// prints one line per document.
func (a *App) Sync(ctx context.Context) error {
	out, err := a.library.Sync(ctx, a.currentSession(ctx))
	if err != nil {
		notify.Failure(ctx, a.notifier, "Sync failed", err)
		return err
	}

	failed := 0
	for _, o := range out {
		a.printf("%-12s %s\n", o.OwnerDocumentID, outcome(o.Record, o.Cached, o.Err))
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		notify.Warnf(ctx, a.notifier, "Sync finished; %d of %d documents failed", failed, len(out))
		return nil
	}
	notify.Successf(ctx, a.notifier, "Sync finished; %d documents available offline", len(out))
	return nil
}

func outcome(rec *models.DocumentRecord, cached bool, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("failed: %v", err)
	case cached:
		return "cached"
	default:
		return fmt.Sprintf("downloaded %s (%s)", rec.Name, shared.FormatFileSize(rec.ByteLength))
	}
}
