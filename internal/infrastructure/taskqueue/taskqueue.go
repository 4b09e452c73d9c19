// Package taskqueue abstracts the durable work-dispatch service that invokes
// the downstream task handler once per submitted task.
package taskqueue

import (
	"context"
	"errors"
)

// ErrDuplicateTask reports that a task with the same dedup ID has already
// been submitted for this queue.
var ErrDuplicateTask = errors.New("task already submitted")

// Submission describes a task to be enqueued.
type Submission struct {
	// Body is the JSON payload delivered to the task handler.
	Body []byte

	// DedupID optionally names the task so the queue rejects a second
	// submission under the same ID. Empty lets the queue assign one.
	DedupID string
}

// Queue submits tasks for asynchronous handling. Submit returns the
// queue-assigned task identifier.
type Queue interface {
	Submit(ctx context.Context, sub *Submission) (string, error)
}
