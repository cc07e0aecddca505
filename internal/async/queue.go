// Package async runs independent measurement jobs on a bounded worker pool.
package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one input to measure. Raw wins over Path when both are set; Path is
// resolved to text by the queue's loader.
type Job struct {
	ID          uuid.UUID
	Path        string
	Raw         string
	FileType    string
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
