package upload

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"upload-gateway/internal/infrastructure/taskqueue"
)

// taskPayload is the body delivered to the downstream task handler.
type taskPayload struct {
	JobID   string `json:"jobId"`
	GCSPath string `json:"gcsPath"`
}

// Dispatcher turns a finalized object into exactly one background job by
// submitting a task to the queue. Submission failures are not retried here;
// Pub/Sub redelivery re-enters the whole pipeline from authentication.
type Dispatcher struct {
	queue taskqueue.Queue
	log   zerolog.Logger
}

func NewDispatcher(queue taskqueue.Queue, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		queue: queue,
		log:   log.With().Str("component", "job-dispatcher").Logger(),
	}
}

// Dispatch mints a fresh job identifier and submits a task referencing the
// finalized object. A non-empty dedupID names the task after the physical
// finalize event; a redelivered notification then surfaces
// taskqueue.ErrDuplicateTask instead of creating a second job.
func (d *Dispatcher) Dispatch(ctx context.Context, gcsPath, dedupID string) (*Job, error) {
	jobID := uuid.NewString()

	body, err := json.Marshal(taskPayload{JobID: jobID, GCSPath: gcsPath})
	if err != nil {
		return nil, fmt.Errorf("encode task payload: %w", err)
	}

	d.log.Info().Str("job", jobID).Str("object", gcsPath).Msg("creating job")

	taskID, err := d.queue.Submit(ctx, &taskqueue.Submission{
		Body:    body,
		DedupID: dedupID,
	})
	if err != nil {
		return nil, err
	}

	d.log.Info().Str("job", jobID).Str("task", taskID).Str("object", gcsPath).Msg("created job task")

	return &Job{
		ID:      jobID,
		GCSPath: gcsPath,
		TaskID:  taskID,
	}, nil
}
