package documents

import (
	"context"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
)

// Repository persists DocumentRecords.
type Repository interface {
	// Put stores rec as one atomic insert and returns its id. An empty ID is
	// assigned; a record with an existing ID replaces the stored one.
	Put(ctx context.Context, rec *models.DocumentRecord) (string, error)

	// GetAll returns every record, newest first. Empty store, empty slice.
	GetAll(ctx context.Context) ([]models.DocumentRecord, error)

	// GetByID returns one record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)

	// FindByOwner returns the records carrying ownerID, oldest first.
	FindByOwner(ctx context.Context, ownerID string) ([]models.DocumentRecord, error)

	// DeleteByID removes one record or returns common.ErrNotFound.
	DeleteByID(ctx context.Context, id string) error

	Stats(ctx context.Context) (models.StorageStats, error)
}
