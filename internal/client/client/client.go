package client

import (
	"context"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
)

// Client is the remote backend as the reader sees it. Implementations map
// transport failures to ErrUnavailable and 401/403 to ErrUnauthorized.
type Client interface {
	Login(ctx context.Context, email string, password []byte) (*models.LoginResult, error)
	Ping(ctx context.Context) error

	// Download requests one document and returns its response shape,
	// already classified.
	Download(ctx context.Context, token, ownerID string) (*models.DownloadResult, error)

	Search(ctx context.Context, token, query string, opts models.SearchOptions) (*models.SearchPage, error)

	Upload(ctx context.Context, token, filename string, payload []byte) (*models.UploadResult, error)
}
