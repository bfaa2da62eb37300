package job

import (
	"context"
	"sync"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

// Queue is a bounded in-process queue of upload jobs.
type Queue struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.UploadJob
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}

	return &Queue{
		ch: make(chan entity.UploadJob, size),
	}
}

// Publish queues the job without waiting. A full queue fails with
// ErrQueueFull so the request answers at once instead of waiting on backlog.
func (q *Queue) Publish(ctx context.Context, job entity.UploadJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return entity.ErrQueueClosed
	}

	select {
	case q.ch <- job:
		return nil
	default:
		return entity.ErrQueueFull
	}
}

func (q *Queue) Subscribe() <-chan entity.UploadJob {
	return q.ch
}

// Len reports the number of jobs waiting for a worker.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops accepting jobs. Jobs already queued are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.ch)
}
