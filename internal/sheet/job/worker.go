package job

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkglog"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

const defaultWorkers = 4

type Handler interface {
	Handle(ctx context.Context, job entity.UploadJob) error
}

type HandlerFunc func(ctx context.Context, job entity.UploadJob) error

func (f HandlerFunc) Handle(ctx context.Context, job entity.UploadJob) error {
	return f(ctx, job)
}

// Runner starts background functions. *pkgroutine.Manager satisfies it.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error) bool
}

type WorkerConfig struct {
	Workers int
}

// Worker drains a Queue with a fixed number of goroutines. Each job is
// handled start to finish by one goroutine.
type Worker struct {
	queue   *Queue
	handler Handler
	runner  Runner
	workers int

	cancel context.CancelFunc
	seen   sync.Map
	wg     sync.WaitGroup
}

func NewWorker(queue *Queue, handler Handler, runner Runner, cfg WorkerConfig) *Worker {
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkers
	}

	return &Worker{
		queue:   queue,
		handler: handler,
		runner:  runner,
		workers: workers,
	}
}

// Start launches the workers. Jobs run on a context that keeps ctx's values
// but not its cancellation; only Stop can cut them short.
func (w *Worker) Start(ctx context.Context) {
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancel = cancel

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		loop := func(ctx context.Context) error {
			defer w.wg.Done()
			w.run(ctx)
			return nil
		}

		if w.runner == nil {
			go loop(jobCtx) //nolint:errcheck // always nil
			continue
		}
		if !w.runner.Go(jobCtx, loop) {
			w.wg.Done()
		}
	}
}

// Stop closes the queue and waits for queued and in-flight jobs to finish.
// When ctx ends first, running jobs are canceled and ctx's error returned.
func (w *Worker) Stop(ctx context.Context) error {
	if w.queue != nil {
		w.queue.Close()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if w.cancel != nil {
			w.cancel()
		}
		return nil
	case <-ctx.Done():
		if w.cancel != nil {
			w.cancel()
		}
		slog.WarnContext(ctx, "upload workers did not drain in time", "pending_jobs", w.queue.Len())
		return ctx.Err()
	}
}

func (w *Worker) run(ctx context.Context) {
	for job := range w.queue.Subscribe() {
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job entity.UploadJob) {
	if w.handler == nil {
		return
	}

	if job.ID != "" {
		if _, loaded := w.seen.LoadOrStore(job.ID, struct{}{}); loaded {
			slog.InfoContext(ctx, "skip duplicate upload job", "upload_id", job.ID)
			return
		}
	}

	if job.CorrelationID != "" {
		ctx = pkglog.SetCorrelationID(ctx, job.CorrelationID)
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic while processing upload job",
				"upload_id", job.ID,
				"panic", rvr,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := w.handler.Handle(ctx, job); err != nil {
		slog.DebugContext(ctx, "upload job ended with error", "upload_id", job.ID, "error", err)
	}
}
