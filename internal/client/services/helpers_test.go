package services

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "reader.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return client.NewRepositories(db)
}

func sessionFor(ids ...string) session.Session {
	return session.Session{Token: "opaque-token", UserID: "u1", Authorized: models.AuthorizedSet(ids)}
}

// putRecord stores a record directly, as an earlier run or another user would.
func putRecord(t *testing.T, repos *client.Repositories, owner, name string, payload []byte, created time.Time) models.DocumentRecord {
	t.Helper()
	rec := models.DocumentRecord{OwnerDocumentID: owner, Name: name, MimeType: "application/pdf", Payload: payload, CreatedAt: created}
	_, err := repos.Documents.Put(context.Background(), &rec)
	require.NoError(t, err)
	return rec
}

func binary(body string) *models.DownloadResult {
	return &models.DownloadResult{Kind: models.DownloadBinary, ContentType: "application/pdf", Body: []byte(body)}
}

// ---- fake client ----

// fakeClient implements client.Client; unset hooks panic through the nil
// embedded interface.
type fakeClient struct {
	client.Client

	downloadFn func(ctx context.Context, token, ownerID string) (*models.DownloadResult, error)
	searchFn   func(ctx context.Context, token, query string, opts models.SearchOptions) (*models.SearchPage, error)
	uploadFn   func(ctx context.Context, token, filename string, payload []byte) (*models.UploadResult, error)
	loginFn    func(ctx context.Context, email string, password []byte) (*models.LoginResult, error)
	pingErr    error

	downloads atomic.Int32
	searches  atomic.Int32
	uploads   atomic.Int32
}

func (f *fakeClient) Download(ctx context.Context, token, ownerID string) (*models.DownloadResult, error) {
	f.downloads.Add(1)
	return f.downloadFn(ctx, token, ownerID)
}

func (f *fakeClient) Search(ctx context.Context, token, query string, opts models.SearchOptions) (*models.SearchPage, error) {
	f.searches.Add(1)
	return f.searchFn(ctx, token, query, opts)
}

func (f *fakeClient) Upload(ctx context.Context, token, filename string, payload []byte) (*models.UploadResult, error) {
	f.uploads.Add(1)
	return f.uploadFn(ctx, token, filename, payload)
}

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*models.LoginResult, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }
