package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/config"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
	"github.com/akash-siv/pen-and-paper/internal/client/services"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake backend ----

type fakeClient struct {
	mu sync.Mutex

	login    *models.LoginResult
	loginErr error
	pingErr  error

	docs        map[string][]byte
	downloadErr map[string]error

	searchPage *models.SearchPage
	searchOpts []models.SearchOptions

	uploadID string
}

func (f *fakeClient) Login(context.Context, string, []byte) (*models.LoginResult, error) {
	return f.login, f.loginErr
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeClient) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeClient) Download(_ context.Context, _, ownerID string) (*models.DownloadResult, error) {
	if err := f.downloadErr[ownerID]; err != nil {
		return nil, err
	}
	body, ok := f.docs[ownerID]
	if !ok {
		return nil, fmt.Errorf("no document %s", ownerID)
	}
	return &models.DownloadResult{
		Kind:        models.DownloadBinary,
		Filename:    ownerID + "-notes.pdf",
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

func (f *fakeClient) Search(_ context.Context, _, query string, opts models.SearchOptions) (*models.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchOpts = append(f.searchOpts, opts)
	page := *f.searchPage
	page.Query = query
	page.Offset = opts.Offset
	return &page, nil
}

func (f *fakeClient) Upload(context.Context, string, string, []byte) (*models.UploadResult, error) {
	if f.uploadID == "" {
		return nil, client.ErrUnavailable
	}
	return &models.UploadResult{OwnerDocumentID: f.uploadID, Status: "ok"}, nil
}

// ---- harness ----

type harness struct {
	app      *App
	out      *bytes.Buffer
	notices  *notify.Recorder
	client   *fakeClient
	sessions *session.Store
}

func newHarness(t *testing.T, fc *fakeClient) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "reader.db"))
	require.NoError(t, err)
	repos := client.NewRepositories(db)
	sessions := session.NewStore(repos.Metadata)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ExportDir = filepath.Join(t.TempDir(), "exports")
	cfg.SearchDebounce = 10 * time.Millisecond

	log := logging.NewNop()
	notices := &notify.Recorder{}
	out := &bytes.Buffer{}
	rec := services.NewReconciler(fc, repos.Documents, log, services.ReconcilerOptions{MaxPayloadSize: cfg.MaxPayloadSize, Concurrency: 2})

	a := &App{
		config:      cfg,
		log:         log,
		notifier:    notices,
		out:         out,
		reader:      bufio.NewReader(strings.NewReader("")),
		db:          db,
		authService: services.NewAuthService(fc, sessions, log),
		library:     services.NewLibraryService(fc, repos.Documents, sessions, rec, notices, log, cfg.MaxPayloadSize),
		docs:        rec,
		search:      services.NewGlobalSearch(fc, rec, notices, log),
		renderer:    render.NewPDFRenderer(log),
	}
	a.viewer = a.newViewer()
	t.Cleanup(a.Close)

	return &harness{app: a, out: out, notices: notices, client: fc, sessions: sessions}
}

// login stubs the prompts and logs in through the app.
func (h *harness) login(t *testing.T) {
	t.Helper()
	restore := stubInputs(t, "reader@example.org", []byte("secret"))
	defer restore()
	require.NoError(t, h.app.Login(context.Background()))
}

func (h *harness) lastNotice(t *testing.T) notify.Notice {
	t.Helper()
	n, ok := h.notices.Last()
	require.True(t, ok, "expected a notice")
	return n
}

func stubInputs(t *testing.T, username string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

// ---- mode ----

func TestSetMode_NotifiesOnChangeOnly(t *testing.T) {
	h := newHarness(t, &fakeClient{})
	ctx := context.Background()

	h.app.setMode(ctx, ModeOnline)
	assert.Equal(t, ModeOnline, h.app.Mode())
	require.Len(t, h.notices.Notices(), 1)
	assert.Equal(t, notify.Success, h.lastNotice(t).Level)

	h.app.setMode(ctx, ModeOnline)
	assert.Len(t, h.notices.Notices(), 1, "no notice when the mode does not change")

	h.app.setMode(ctx, ModeOffline)
	assert.Equal(t, ModeOffline, h.app.Mode())
	assert.Equal(t, notify.Warning, h.lastNotice(t).Level)
}

func TestCheckOnline(t *testing.T) {
	fc := &fakeClient{}
	h := newHarness(t, fc)
	ctx := context.Background()

	h.app.checkOnline(ctx)
	assert.Equal(t, ModeOnline, h.app.Mode())

	fc.setPingErr(client.ErrUnavailable)
	h.app.checkOnline(ctx)
	assert.Equal(t, ModeOffline, h.app.Mode())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	fc := &fakeClient{pingErr: errors.New("connection refused")}
	h := newHarness(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.app.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)
	fc.setPingErr(nil)
	require.Eventually(t, func() bool { return h.app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestGetStatus(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())

	a.session = session.Session{UserID: "alice"}
	assert.Equal(t, "(alice )", a.getStatus())

	a.mode = ModeOffline
	assert.Equal(t, "(alice offline)", a.getStatus())
}

func TestIsLoggedIn(t *testing.T) {
	a := &App{}
	assert.False(t, a.isLoggedIn())

	a.session = session.Session{Token: "opaque-token"}
	assert.True(t, a.isLoggedIn())
}
