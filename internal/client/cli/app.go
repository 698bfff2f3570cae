package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/client"
	"github.com/akash-siv/pen-and-paper/internal/client/config"
	"github.com/akash-siv/pen-and-paper/internal/client/inbox"
	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/render"
	"github.com/akash-siv/pen-and-paper/internal/client/services"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/client/viewer"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	notifier notify.Notifier
	out      io.Writer
	reader   *bufio.Reader
	db       *sql.DB

	authService services.AuthService
	library     services.LibraryService
	docs        services.Materializer
	search      *services.GlobalSearch
	renderer    render.Renderer
	viewer      *viewer.Controller
	inbox       *inbox.Watcher

	mu         sync.Mutex
	session    session.Session
	mode       Mode
	lastSearch models.SearchOptions
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}
	repos := client.NewRepositories(db)
	sessions := session.NewStore(repos.Metadata)

	apiClient := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, c.MaxPayloadSize)
	notifier := notify.NewConsole(os.Stdout, log)

	reconciler := services.NewReconciler(apiClient, repos.Documents, log, services.ReconcilerOptions{
		MaxPayloadSize: c.MaxPayloadSize,
		Concurrency:    c.DownloadConcurrency,
	})
	library := services.NewLibraryService(apiClient, repos.Documents, sessions, reconciler, notifier, log, c.MaxPayloadSize)

	a := &App{
		config:      c,
		log:         log,
		notifier:    notifier,
		out:         os.Stdout,
		reader:      bufio.NewReader(os.Stdin),
		db:          db,
		authService: services.NewAuthService(apiClient, sessions, log),
		library:     library,
		docs:        reconciler,
		search:      services.NewGlobalSearch(apiClient, reconciler, notifier, log),
		renderer:    render.NewPDFRenderer(log),
	}
	a.viewer = a.newViewer()
	if c.InboxDir != "" {
		a.inbox = inbox.NewWatcher(c.InboxDir, library, sessions, notifier, log, 0)
	}
	return a, nil
}

func (a *App) newViewer() *viewer.Controller {
	return viewer.NewController(a.renderer, a.notifier, a.log, viewer.Options{SearchDebounce: a.config.SearchDebounce})
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if !changed {
		return
	}
	if mode == ModeOnline {
		notify.Successf(ctx, a.notifier, "Switched to %s mode", mode)
	} else {
		notify.Warnf(ctx, a.notifier, "Switched to %s mode; cached documents are still available", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run starts the REPL and releases the store when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.viewer != nil {
		a.viewer.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Authenticated()
}

// currentSession reloads the persisted session, which the inbox watcher may
// have extended since the last command.
func (a *App) currentSession(ctx context.Context) session.Session {
	sess, err := a.authService.Current(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.log.Warn(ctx, "could not load session", "error", err)
		return a.session
	}
	a.session = sess
	return sess
}

func (a *App) setSession(sess session.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = sess
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
