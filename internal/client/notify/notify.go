// Package notify delivers transient user notifications. Every user-visible
// outcome of a reader operation goes through a Notifier.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/logging"
)

type Level int

const (
	Success Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is one notification. Kind names the error taxonomy member for
// failures (see common.KindOf) and is empty otherwise.
type Notice struct {
	Level   Level
	Message string
	Kind    string
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Successf, Warnf and Failure are shorthands over Notify.
func Successf(ctx context.Context, n Notifier, format string, args ...any) {
	n.Notify(ctx, Notice{Level: Success, Message: fmt.Sprintf(format, args...)})
}

func Warnf(ctx context.Context, n Notifier, format string, args ...any) {
	n.Notify(ctx, Notice{Level: Warning, Message: fmt.Sprintf(format, args...)})
}

func Failure(ctx context.Context, n Notifier, action string, err error) {
	n.Notify(ctx, Notice{Level: Error, Message: fmt.Sprintf("%s: %v", action, err), Kind: common.KindOf(err)})
}

// Console prints notices to w and mirrors them to the log.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	log logging.Logger
}

func NewConsole(out io.Writer, log logging.Logger) *Console {
	return &Console{out: out, log: log}
}

func (c *Console) Notify(ctx context.Context, n Notice) {
	c.mu.Lock()
	fmt.Fprintf(c.out, "%s %s\n", prefix(n.Level), n.Message)
	c.mu.Unlock()

	switch n.Level {
	case Error:
		c.log.Error(ctx, n.Message, "kind", n.Kind)
	case Warning:
		c.log.Warn(ctx, n.Message)
	default:
		c.log.Debug(ctx, n.Message)
	}
}

func prefix(l Level) string {
	switch l {
	case Success:
		return "[ok]"
	case Warning:
		return "[warn]"
	default:
		return "[error]"
	}
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Notice) {}
