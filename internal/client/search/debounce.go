package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// MinQueryLength is the shortest query, in runes after trimming, that an
// as-you-type search runs for.
const MinQueryLength = 2

// Debouncer runs only the last query submitted within its window. Queries
// shorter than MinQueryLength call clear instead of run. Starting a new run
// cancels the context of the previous one.
type Debouncer struct {
	wait  time.Duration
	run   func(ctx context.Context, query string)
	clear func()

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

func NewDebouncer(wait time.Duration, run func(ctx context.Context, query string), clear func()) *Debouncer {
	return &Debouncer{wait: wait, run: run, clear: clear}
}

// Submit schedules query, superseding anything still pending.
func (d *Debouncer) Submit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen, query) })
}

func (d *Debouncer) fire(gen uint64, query string) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		d.mu.Unlock()
		d.clear()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	d.run(ctx, query)
}

// Cancel drops the pending query and cancels a running one. Later Submits
// are scheduled as usual.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.abort()
}

// Stop drops the pending query and cancels a running one. Submit is a no-op
// afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.abort()
}

func (d *Debouncer) abort() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
