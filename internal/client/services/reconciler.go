package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/ownership"
	"github.com/akash-siv/pen-and-paper/internal/client/repositories/documents"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/cryptox"
	"github.com/akash-siv/pen-and-paper/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Materializer makes a document's bytes available locally.
type Materializer interface {
	Materialize(ctx context.Context, sess session.Session, ownerID string) (*models.DocumentRecord, error)
}

// MaterializeOutcome is the per-id result of a batch materialization.
type MaterializeOutcome struct {
	OwnerDocumentID string
	Record          *models.DocumentRecord
	// Cached is set when the record was already in the store.
	Cached bool
	Err    error
}

// Reconciler serves documents from the local store and downloads them on a
// miss. Concurrent calls for the same owner id share one download.
type Reconciler struct {
	client      client.Client
	docs        documents.Repository
	log         logging.Logger
	maxPayload  int64
	concurrency int
	now         func() time.Time

	flight singleflight.Group
}

// ReconcilerOptions tune downloads. Zero values mean no payload cap and one
// download at a time.
type ReconcilerOptions struct {
	MaxPayloadSize int64
	Concurrency    int
}

func NewReconciler(c client.Client, docs documents.Repository, log logging.Logger, opts ReconcilerOptions) *Reconciler {
	return &Reconciler{
		client:      c,
		docs:        docs,
		log:         log.With("component", "reconciler"),
		maxPayload:  opts.MaxPayloadSize,
		concurrency: max(1, opts.Concurrency),
		now:         time.Now,
	}
}

// Materialize returns the visible record for ownerID, downloading and
// storing it when the session cannot see one yet. Records the session
// cannot see are never returned, even when they carry ownerID.
func (r *Reconciler) Materialize(ctx context.Context, sess session.Session, ownerID string) (*models.DocumentRecord, error) {
	rec, _, err := r.materialize(ctx, sess, ownerID)
	return rec, err
}

func (r *Reconciler) materialize(ctx context.Context, sess session.Session, ownerID string) (*models.DocumentRecord, bool, error) {
	if ownerID == "" {
		return nil, false, errors.New("materialize: empty owner document id")
	}

	if rec, err := r.lookup(ctx, sess, ownerID); err != nil || rec != nil {
		return rec, rec != nil, err
	}

	token, err := sess.BearerToken()
	if err != nil {
		return nil, false, err
	}

	v, err, shared := r.flight.Do(ownerID, func() (any, error) {
		return r.fetch(ctx, sess, token, ownerID)
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		r.log.Debug(ctx, "joined in-flight download", "owner", ownerID)
	}

	out := *v.(*models.DocumentRecord)
	return &out, false, nil
}

func (r *Reconciler) lookup(ctx context.Context, sess session.Session, ownerID string) (*models.DocumentRecord, error) {
	all, err := r.docs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := ownership.Find(all, sess.Authorized, ownerID)
	if !ok {
		return nil, nil
	}
	if !cryptox.Verify(rec.Payload, rec.Checksum) {
		// drop it so the caller downloads a fresh copy
		r.log.Warn(ctx, "cached payload corrupted", "owner", ownerID, "id", rec.ID)
		if err := r.docs.DeleteByID(ctx, rec.ID); err != nil {
			return nil, fmt.Errorf("drop corrupted %s: %w", rec.ID, err)
		}
		return nil, nil
	}
	r.log.Debug(ctx, "cache hit", "owner", ownerID, "id", rec.ID)
	return rec, nil
}

func (r *Reconciler) fetch(ctx context.Context, sess session.Session, token, ownerID string) (*models.DocumentRecord, error) {
	// a download that just finished may have stored it
	if rec, err := r.lookup(ctx, sess, ownerID); err != nil || rec != nil {
		return rec, err
	}

	started := r.now()
	res, err := r.client.Download(ctx, token, ownerID)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", ownerID, err)
	}

	p, err := normalize(res, ownerID, r.maxPayload)
	if err != nil {
		return nil, err
	}

	rec := &models.DocumentRecord{
		OwnerDocumentID: ownerID,
		Name:            p.filename,
		MimeType:        p.mimeType,
		Payload:         p.data,
	}
	if _, err := r.docs.Put(ctx, rec); err != nil {
		return nil, err
	}
	r.log.Info(ctx, "document stored", "owner", ownerID, "id", rec.ID, "bytes", rec.ByteLength, "shape", res.Kind.String())

	return r.settle(ctx, rec, started)
}

// settle removes copies of rec's owner id written since started by another
// writer, keeping the oldest. Records older than started are not touched.
func (r *Reconciler) settle(ctx context.Context, rec *models.DocumentRecord, started time.Time) (*models.DocumentRecord, error) {
	copies, err := r.docs.FindByOwner(ctx, rec.OwnerDocumentID)
	if err != nil {
		r.log.Warn(ctx, "duplicate check failed", "owner", rec.OwnerDocumentID, "error", err)
		return rec, nil
	}

	var keep *models.DocumentRecord
	for i := range copies {
		c := &copies[i]
		if c.CreatedAt.Before(started) {
			continue
		}
		if keep == nil {
			keep = c
			continue
		}
		if err := r.docs.DeleteByID(ctx, c.ID); err != nil {
			r.log.Warn(ctx, "remove duplicate failed", "owner", c.OwnerDocumentID, "id", c.ID, "error", err)
			continue
		}
		r.log.Info(ctx, "removed duplicate", "owner", c.OwnerDocumentID, "id", c.ID, "kept", keep.ID)
	}

	if keep == nil || keep.ID == rec.ID {
		return rec, nil
	}
	return keep, nil
}

// MaterializeAll materializes every id independently, a bounded number at a
// time. One failure does not stop the others; outcomes keep the input order.
func (r *Reconciler) MaterializeAll(ctx context.Context, sess session.Session, ids []string) []MaterializeOutcome {
	out := make([]MaterializeOutcome, len(ids))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, cached, err := r.materialize(ctx, sess, id)
			out[i] = MaterializeOutcome{OwnerDocumentID: id, Record: rec, Cached: cached, Err: err}
			if err != nil {
				r.log.Warn(ctx, "materialize failed", "owner", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

var _ Materializer = (*Reconciler)(nil)
