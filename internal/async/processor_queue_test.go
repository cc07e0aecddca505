package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/pipeline"
)

type fakeProcessor struct {
	mu    sync.Mutex
	calls map[string]string // raw -> request id
}

func (f *fakeProcessor) ProcessDetailed(ctx context.Context, raw, fileType string) pipeline.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]string)
	}
	f.calls[raw] = common.RequestIDFromContext(ctx)
	return pipeline.Result{RunID: common.RequestIDFromContext(ctx)}
}

func TestProcessorQueueRunsEveryJob(t *testing.T) {
	proc := &fakeProcessor{}
	var mu sync.Mutex
	var done []Job
	loader := func(_ context.Context, job Job) (string, error) {
		return "loaded:" + job.Path, nil
	}
	q := NewProcessorQueue(proc, nil,
		WithWorkers(3),
		WithQueueSize(2),
		WithLoader(loader),
		WithHandler(func(job Job, _ pipeline.Result) {
			mu.Lock()
			defer mu.Unlock()
			done = append(done, job)
		}),
	)

	jobs := []Job{
		{Path: "a.csv", FileType: "csv"},
		{Path: "b.pdf", FileType: "pdf", TraceID: "trace-b"},
		{Raw: "Kitchen,120,10x12", Path: "ignored.csv"},
		{Path: "c.json"},
		{Path: "d.png"},
	}
	for _, j := range jobs {
		if err := q.Enqueue(context.Background(), j); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if len(done) != len(jobs) {
		t.Fatalf("handler saw %d jobs, want %d", len(done), len(jobs))
	}
	for _, j := range done {
		if j.ID == uuid.Nil || j.SubmittedAt.IsZero() {
			t.Errorf("job %+v missing ID or SubmittedAt", j)
		}
	}
	for _, raw := range []string{"loaded:a.csv", "loaded:b.pdf", "Kitchen,120,10x12", "loaded:c.json", "loaded:d.png"} {
		if _, ok := proc.calls[raw]; !ok {
			t.Errorf("processor never saw %q (calls %v)", raw, proc.calls)
		}
	}
	if got := proc.calls["loaded:b.pdf"]; got != "trace-b" {
		t.Errorf("request id = %q, want trace-b", got)
	}
}

func TestProcessorQueueLoaderError(t *testing.T) {
	proc := &fakeProcessor{}
	var handled int
	q := NewProcessorQueue(proc, nil,
		WithWorkers(1),
		WithLoader(func(context.Context, Job) (string, error) { return "", errors.New("unreadable") }),
		WithHandler(func(Job, pipeline.Result) { handled++ }),
	)
	if err := q.Enqueue(context.Background(), Job{Path: "broken.pdf"}); err != nil {
		t.Fatal(err)
	}
	q.Shutdown(context.Background())

	if handled != 1 {
		t.Errorf("handled = %d, want 1", handled)
	}
	if _, ok := proc.calls[""]; !ok {
		t.Errorf("processor should still run with empty text, calls %v", proc.calls)
	}
}

func TestProcessorQueueClosed(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	if err := q.Enqueue(context.Background(), Job{Raw: "x"}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Enqueue() after Shutdown error = %v, want ErrQueueClosed", err)
	}
}

type blockingProcessor struct{ release chan struct{} }

func (b blockingProcessor) ProcessDetailed(context.Context, string, string) pipeline.Result {
	<-b.release
	return pipeline.Result{}
}

func TestProcessorQueueBackpressureHonorsContext(t *testing.T) {
	proc := blockingProcessor{release: make(chan struct{})}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))
	defer func() {
		close(proc.release)
		q.Shutdown(context.Background())
	}()

	// one job occupies the worker, one fills the buffer
	_ = q.Enqueue(context.Background(), Job{Raw: "1"})
	_ = q.Enqueue(context.Background(), Job{Raw: "2"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{Raw: "3"})
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Enqueue() error = %v, want nil or deadline exceeded", err)
	}
}
