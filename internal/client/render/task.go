package render

import (
	"context"
	"errors"
	"sync"

	"github.com/akash-siv/pen-and-paper/internal/common"
)

// Task is an in-flight page render.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	once  sync.Once
	frame *Frame
	err   error
}

// StartTask runs fn in its own goroutine. When the task's context ends
// before fn returns a result, Wait reports common.ErrRenderCancelled.
func StartTask(ctx context.Context, fn func(ctx context.Context) (*Frame, error)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		frame, err := fn(ctx)
		if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			t.err = common.ErrRenderCancelled
			return
		}
		t.frame, t.err = frame, err
	}()
	return t
}

// Cancel stops the task. It is safe to call more than once.
func (t *Task) Cancel() {
	t.once.Do(t.cancel)
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes.
func (t *Task) Wait() (*Frame, error) {
	<-t.done
	return t.frame, t.err
}
