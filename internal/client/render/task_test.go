package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Completes(t *testing.T) {
	task := StartTask(context.Background(), func(ctx context.Context) (*Frame, error) {
		return &Frame{Page: 3}, nil
	})
	f, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, f.Page)
}

func TestTask_CancelReportsRenderCancelled(t *testing.T) {
	started := make(chan struct{})
	task := StartTask(context.Background(), func(ctx context.Context) (*Frame, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started
	task.Cancel()
	task.Cancel()

	_, err := task.Wait()
	require.ErrorIs(t, err, common.ErrRenderCancelled)
}

func TestTask_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := StartTask(ctx, func(ctx context.Context) (*Frame, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not stop")
	}
	_, err := task.Wait()
	require.ErrorIs(t, err, common.ErrRenderCancelled)
}

func TestTask_GenuineFailureIsKept(t *testing.T) {
	boom := errors.New("boom")
	task := StartTask(context.Background(), func(ctx context.Context) (*Frame, error) {
		return nil, boom
	})
	_, err := task.Wait()
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrRenderCancelled)
}
