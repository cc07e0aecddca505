package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/pipeline"
)

// Processor is the part of pipeline.Engine the queue drives.
type Processor interface {
	ProcessDetailed(ctx context.Context, raw, fileType string) pipeline.Result
}

// Loader turns a job's Path into raw text.
type Loader func(ctx context.Context, job Job) (string, error)

// Handler receives every finished job. It is called from worker goroutines.
type Handler func(job Job, res pipeline.Result)

type ProcessorQueue struct {
	proc    Processor
	load    Loader
	handle  Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithLoader(l Loader) Option {
	return func(q *ProcessorQueue) { q.load = l }
}
func WithHandler(h Handler) Option {
	return func(q *ProcessorQueue) { q.handle = h }
}

func NewProcessorQueue(proc Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.process(workerID, job)
				}
				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) process(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.TraceID != "" {
		ctx = common.WithRequestID(ctx, job.TraceID)
	}
	if job.Path != "" {
		ctx = common.WithSource(ctx, job.Path)
	}

	raw := job.Raw
	if raw == "" && job.Path != "" && q.load != nil {
		text, err := q.load(ctx, job)
		if err != nil {
			// an unreadable file still gets the engine's fallback result
			q.logger.Error("queue.load.failed", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "err", err)
		}
		raw = text
	}

	res := q.proc.ProcessDetailed(ctx, raw, job.FileType)
	q.logger.Info("queue.job.done",
		"worker_id", workerID,
		"job_id", job.ID,
		"path", job.Path,
		"locations", len(res.Locations),
		"degraded", res.Degraded,
		"waited", time.Since(job.SubmittedAt)-res.Duration,
	)
	if q.handle != nil {
		q.handle(job, res)
	}
}

// Enqueue blocks while the queue is full, until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "job_id", job.ID)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueue.ok", "job_id", job.ID, "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue.enqueue.backpressure", "job_id", job.ID)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
}
