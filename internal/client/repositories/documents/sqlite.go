package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/cryptox"
	"github.com/akash-siv/pen-and-paper/internal/dbx"
	"github.com/google/uuid"
)

// Conn is what the repository needs from the database: queries plus the
// ability to open a transaction. *sql.DB satisfies it.
type Conn interface {
	dbx.DBTX
	dbx.Beginner
}

type SQLiteRepository struct {
	db  Conn
	now func() time.Time
}

func NewSQLiteRepository(db Conn) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const selectColumns = `id, owner_document_id, name, mime_type, byte_length, created_at, checksum, payload`

func (r *SQLiteRepository) Put(ctx context.Context, rec *models.DocumentRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("%w: nil record", common.ErrStorageWrite)
	}

	stored := *rec
	if stored.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("%w: generate id: %w", common.ErrStorageWrite, err)
		}
		stored.ID = id.String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	stored.CreatedAt = stored.CreatedAt.UTC()
	stored.ByteLength = int64(len(stored.Payload))
	stored.Checksum = cryptox.Checksum(stored.Payload)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO documents (`+selectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				owner_document_id = excluded.owner_document_id,
				name = excluded.name,
				mime_type = excluded.mime_type,
				byte_length = excluded.byte_length,
				created_at = excluded.created_at,
				checksum = excluded.checksum,
				payload = excluded.payload
		`, stored.ID, nullString(stored.OwnerDocumentID), stored.Name, stored.MimeType,
			stored.ByteLength, stored.CreatedAt.UnixNano(), stored.Checksum, stored.Payload)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %w", common.ErrStorageWrite, stored.ID, err)
	}

	*rec = stored
	return stored.ID, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM documents ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: select documents: %w", common.ErrStorageRead, err)
	}
	return scanAll(rows)
}

func (r *SQLiteRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM documents WHERE owner_document_id = ? ORDER BY created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: select documents of %s: %w", common.ErrStorageRead, ownerID, err)
	}
	return scanAll(rows)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM documents WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", common.ErrStorageRead, id, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", common.ErrStorageWrite, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", common.ErrStorageWrite, id, err)
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Stats(ctx context.Context) (models.StorageStats, error) {
	var s models.StorageStats
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(byte_length), 0) FROM documents`).
		Scan(&s.Count, &s.TotalBytes)
	if err != nil {
		return models.StorageStats{}, fmt.Errorf("%w: stats: %w", common.ErrStorageRead, err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.DocumentRecord, error) {
	var (
		rec     models.DocumentRecord
		owner   sql.NullString
		created int64
	)
	if err := s.Scan(&rec.ID, &owner, &rec.Name, &rec.MimeType, &rec.ByteLength, &created, &rec.Checksum, &rec.Payload); err != nil {
		return nil, err
	}
	rec.OwnerDocumentID = owner.String
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}

func scanAll(rows *sql.Rows) ([]models.DocumentRecord, error) {
	defer rows.Close()

	result := make([]models.DocumentRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan document: %w", common.ErrStorageRead, err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate documents: %w", common.ErrStorageRead, err)
	}
	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
