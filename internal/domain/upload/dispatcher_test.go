package upload_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upload-gateway/internal/domain/upload"
	"upload-gateway/internal/infrastructure/taskqueue"
)

// fakeQueue is a test double for taskqueue.Queue.
type fakeQueue struct {
	SubmitFunc  func(ctx context.Context, sub *taskqueue.Submission) (string, error)
	submissions []*taskqueue.Submission
}

func (q *fakeQueue) Submit(ctx context.Context, sub *taskqueue.Submission) (string, error) {
	q.submissions = append(q.submissions, sub)
	if q.SubmitFunc != nil {
		return q.SubmitFunc(ctx, sub)
	}
	return "projects/p/locations/r/queues/q/tasks/1", nil
}

func TestDispatcher_SubmitsOneTaskWithPayload(t *testing.T) {
	queue := &fakeQueue{}
	dispatcher := upload.NewDispatcher(queue, zerolog.Nop())

	job, err := dispatcher.Dispatch(context.Background(), "gs://test-bucket/upload/f.png", "job-abc")
	require.NoError(t, err)

	require.Len(t, queue.submissions, 1)
	sub := queue.submissions[0]
	assert.Equal(t, "job-abc", sub.DedupID)

	var payload struct {
		JobID   string `json:"jobId"`
		GCSPath string `json:"gcsPath"`
	}
	require.NoError(t, json.Unmarshal(sub.Body, &payload))
	assert.Equal(t, job.ID, payload.JobID)
	assert.Equal(t, "gs://test-bucket/upload/f.png", payload.GCSPath)

	assert.Equal(t, "projects/p/locations/r/queues/q/tasks/1", job.TaskID)
	assert.Equal(t, "gs://test-bucket/upload/f.png", job.GCSPath)

	_, err = uuid.Parse(job.ID)
	assert.NoError(t, err, "job ID must be a valid UUID")
}

func TestDispatcher_FreshJobIDPerDispatch(t *testing.T) {
	queue := &fakeQueue{}
	dispatcher := upload.NewDispatcher(queue, zerolog.Nop())

	first, err := dispatcher.Dispatch(context.Background(), "gs://b/upload/a", "")
	require.NoError(t, err)
	second, err := dispatcher.Dispatch(context.Background(), "gs://b/upload/a", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestDispatcher_QueueFailurePropagates(t *testing.T) {
	queue := &fakeQueue{
		SubmitFunc: func(ctx context.Context, sub *taskqueue.Submission) (string, error) {
			return "", errors.New("queue unavailable")
		},
	}
	dispatcher := upload.NewDispatcher(queue, zerolog.Nop())

	_, err := dispatcher.Dispatch(context.Background(), "gs://b/upload/a", "")
	require.Error(t, err)
}

func TestDispatcher_DuplicatePassesThrough(t *testing.T) {
	queue := &fakeQueue{
		SubmitFunc: func(ctx context.Context, sub *taskqueue.Submission) (string, error) {
			return "", taskqueue.ErrDuplicateTask
		},
	}
	dispatcher := upload.NewDispatcher(queue, zerolog.Nop())

	_, err := dispatcher.Dispatch(context.Background(), "gs://b/upload/a", "job-abc")
	assert.ErrorIs(t, err, taskqueue.ErrDuplicateTask)
}
