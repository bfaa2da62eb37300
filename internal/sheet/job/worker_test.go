package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePublishAfterClose(t *testing.T) {
	q := NewQueue(0)
	q.Close()
	q.Close()

	err := q.Publish(context.Background(), entity.UploadJob{ID: "a"})
	assert.ErrorIs(t, err, entity.ErrQueueClosed)
}

func TestQueuePublishFailsFastWhenFull(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Publish(context.Background(), entity.UploadJob{ID: "a"}))
	assert.Equal(t, 1, q.Len())

	start := time.Now()
	err := q.Publish(context.Background(), entity.UploadJob{ID: "b"})
	assert.ErrorIs(t, err, entity.ErrQueueFull)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, q.Len())
}

func TestQueuePublishCanceledContext(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Publish(ctx, entity.UploadJob{ID: "a"}), context.Canceled)
	assert.Zero(t, q.Len())
}

func TestWorkerSkipsDuplicatesAndDrainsOnStop(t *testing.T) {
	q := NewQueue(10)

	var mu sync.Mutex
	var handled []string
	handler := HandlerFunc(func(ctx context.Context, job entity.UploadJob) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, job.ID)
		return nil
	})

	for _, id := range []string{"a", "b", "a", "c"} {
		require.NoError(t, q.Publish(context.Background(), entity.UploadJob{ID: id}))
	}

	mgr := pkgroutine.NewManager(10)
	w := NewWorker(q, handler, mgr, WorkerConfig{Workers: 1})
	w.Start(context.Background())

	require.NoError(t, w.Stop(context.Background()))
	require.NoError(t, mgr.Wait())

	assert.Equal(t, []string{"a", "b", "c"}, handled)
	assert.ErrorIs(t, q.Publish(context.Background(), entity.UploadJob{ID: "d"}), entity.ErrQueueClosed)
}

func TestWorkerJobsSurviveParentCancellation(t *testing.T) {
	q := NewQueue(1)
	started := make(chan struct{})
	release := make(chan struct{})
	var jobErr atomic.Value

	handler := HandlerFunc(func(ctx context.Context, job entity.UploadJob) error {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			jobErr.Store(err)
		}
		return nil
	})

	parent, cancel := context.WithCancel(context.Background())
	w := NewWorker(q, handler, nil, WorkerConfig{Workers: 2})
	w.Start(parent)

	require.NoError(t, q.Publish(context.Background(), entity.UploadJob{ID: "a"}))
	<-started
	cancel()
	close(release)

	require.NoError(t, w.Stop(context.Background()))
	assert.Nil(t, jobErr.Load())
}

func TestWorkerStopTimesOutAndCancelsJobs(t *testing.T) {
	q := NewQueue(1)
	started := make(chan struct{})
	canceled := make(chan struct{})

	handler := HandlerFunc(func(ctx context.Context, job entity.UploadJob) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})

	w := NewWorker(q, handler, nil, WorkerConfig{Workers: 1})
	w.Start(context.Background())
	require.NoError(t, q.Publish(context.Background(), entity.UploadJob{ID: "slow"}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := w.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not canceled")
	}
}

func TestWorkerRecoversPanickingJob(t *testing.T) {
	q := NewQueue(4)
	var ok atomic.Int32
	handler := HandlerFunc(func(ctx context.Context, job entity.UploadJob) error {
		if job.ID == "bad" {
			panic("boom")
		}
		ok.Add(1)
		return errors.New("ignored")
	})

	require.NoError(t, q.Publish(context.Background(), entity.UploadJob{ID: "bad"}))
	require.NoError(t, q.Publish(context.Background(), entity.UploadJob{ID: "good"}))

	w := NewWorker(q, handler, nil, WorkerConfig{Workers: 1})
	w.Start(context.Background())
	require.NoError(t, w.Stop(context.Background()))

	assert.Equal(t, int32(1), ok.Load())
}
