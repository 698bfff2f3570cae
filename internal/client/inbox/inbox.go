// Package inbox imports documents dropped into a watched folder.
//
// A file is imported once it has stopped changing for the settle window.
// Imported files are moved to the imported/ subfolder; files that fail stay
// where they are and are retried the next time the watcher starts.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/akash-siv/pen-and-paper/internal/client/notify"
	"github.com/akash-siv/pen-and-paper/internal/client/services"
	"github.com/akash-siv/pen-and-paper/internal/client/session"
	"github.com/akash-siv/pen-and-paper/internal/filex"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

const (
	DefaultSettle = 500 * time.Millisecond
	importedDir   = "imported"
)

type Importer interface {
	Import(ctx context.Context, sess session.Session, path string) (*services.ImportResult, error)
}

// Sessions yields the session an import runs under. It is loaded per
// import so that each import sees the ids added by the previous one.
type Sessions interface {
	Load(ctx context.Context) (session.Session, error)
}

type Watcher struct {
	dir      string
	importer Importer
	sessions Sessions
	notifier notify.Notifier
	log      logging.Logger
	settle   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool

	// importMu serializes imports
	importMu sync.Mutex
	inflight sync.WaitGroup
	done     chan struct{}
}

func NewWatcher(dir string, imp Importer, sessions Sessions, n notify.Notifier, log logging.Logger, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		dir:      dir,
		importer: imp,
		sessions: sessions,
		notifier: n,
		log:      log.With("component", "inbox"),
		settle:   settle,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
}

// Watch starts watching the folder and queues the documents already in it.
// It returns once the watch is established; the watch ends with ctx.
func (w *Watcher) Watch(ctx context.Context) error {
	dir, err := filex.EnsureDir(w.dir)
	if err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	w.dir = dir
	if _, err := filex.EnsureDir(filepath.Join(dir, importedDir)); err != nil {
		return fmt.Errorf("inbox: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox: create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("inbox: watch %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("inbox: list %s: %w", dir, err)
	}
	queued := 0
	for _, e := range entries {
		if !e.IsDir() && isDocument(e.Name()) {
			w.schedule(ctx, filepath.Join(dir, e.Name()))
			queued++
		}
	}

	w.log.Info(ctx, "watching inbox", "dir", dir, "queued", queued)
	go w.loop(ctx, fw)
	return nil
}

// Done is closed after the watch has ended and in-flight imports finished.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer w.inflight.Wait()
	defer w.stopPending()
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if isDocument(ev.Name) {
				w.schedule(ctx, ev.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn(ctx, "inbox watcher error", "error", err)
		}
	}
}

// schedule (re)starts the settle timer of path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		if w.stopped || ctx.Err() != nil {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()

		defer w.inflight.Done()
		w.importFile(ctx, path)
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	w.importMu.Lock()
	defer w.importMu.Unlock()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return
	}

	sess, err := w.sessions.Load(ctx)
	if err != nil {
		w.log.Warn(ctx, "inbox import skipped", "path", path, "error", err)
		notify.Failure(ctx, w.notifier, "Inbox import failed", err)
		return
	}

	res, err := w.importer.Import(ctx, sess, path)
	if err != nil {
		w.log.Warn(ctx, "inbox import failed", "path", path, "error", err)
		notify.Failure(ctx, w.notifier, "Inbox import of "+filepath.Base(path)+" failed", err)
		return
	}

	if err := os.Rename(path, w.importedPath(path)); err != nil {
		w.log.Warn(ctx, "could not move imported file", "path", path, "error", err)
	}
	if res.Uploaded {
		notify.Successf(ctx, w.notifier, "Imported %s (%d pages)", res.Record.Name, res.Pages)
	}
	w.log.Info(ctx, "inbox file imported", "path", path, "id", res.Record.ID, "uploaded", res.Uploaded)
}

// importedPath picks a free name under imported/.
func (w *Watcher) importedPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	target := filepath.Join(w.dir, importedDir, base)
	for i := 1; ; i++ {
		if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
			return target
		}
		target = filepath.Join(w.dir, importedDir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
}

func isDocument(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
