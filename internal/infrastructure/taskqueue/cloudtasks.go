package taskqueue

import (
	"context"
	"fmt"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"upload-gateway/internal/config"
	"upload-gateway/internal/infrastructure/metrics"
)

// CloudTasksQueue implements Queue on top of Google Cloud Tasks. Each
// submission becomes an HTTP task that POSTs the payload to the configured
// task handler, carrying an OIDC token minted for the queue's service
// account so the handler can verify the call came from the queue.
type CloudTasksQueue struct {
	client       *cloudtasks.Client
	queuePath    string
	handlerURL   string
	serviceEmail string
	log          zerolog.Logger
}

// NewCloudTasksQueue creates a Cloud Tasks backed queue.
func NewCloudTasksQueue(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...option.ClientOption) (*CloudTasksQueue, error) {
	client, err := cloudtasks.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create Cloud Tasks client: %w", err)
	}
	return &CloudTasksQueue{
		client:       client,
		queuePath:    cfg.QueuePath(),
		handlerURL:   cfg.TaskHandlerURL,
		serviceEmail: cfg.TaskServiceAccountEmail,
		log:          log.With().Str("component", "cloudtasks-queue").Logger(),
	}, nil
}

// Submit enqueues one HTTP task. A non-empty DedupID names the task under
// the queue, in which case Cloud Tasks rejects a repeat submission with
// ALREADY_EXISTS, surfaced here as ErrDuplicateTask.
func (q *CloudTasksQueue) Submit(ctx context.Context, sub *Submission) (string, error) {
	task := &cloudtaskspb.Task{
		MessageType: &cloudtaskspb.Task_HttpRequest{
			HttpRequest: &cloudtaskspb.HttpRequest{
				HttpMethod: cloudtaskspb.HttpMethod_POST,
				Url:        q.handlerURL,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       sub.Body,
				AuthorizationHeader: &cloudtaskspb.HttpRequest_OidcToken{
					OidcToken: &cloudtaskspb.OidcToken{
						ServiceAccountEmail: q.serviceEmail,
					},
				},
			},
		},
	}
	if sub.DedupID != "" {
		task.Name = fmt.Sprintf("%s/tasks/%s", q.queuePath, sub.DedupID)
	}

	start := time.Now()
	resp, err := q.client.CreateTask(ctx, &cloudtaskspb.CreateTaskRequest{
		Parent: q.queuePath,
		Task:   task,
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			metrics.RecordTaskSubmission("duplicate", time.Since(start).Seconds())
			q.log.Info().Str("dedup_id", sub.DedupID).Msg("task already exists, treating as duplicate delivery")
			return "", ErrDuplicateTask
		}
		metrics.RecordTaskSubmission("error", time.Since(start).Seconds())
		return "", fmt.Errorf("create task: %w", err)
	}

	metrics.RecordTaskSubmission("success", time.Since(start).Seconds())
	q.log.Info().Str("task", resp.GetName()).Msg("submitted task")
	return resp.GetName(), nil
}

// Close releases the underlying Cloud Tasks client.
func (q *CloudTasksQueue) Close() error {
	return q.client.Close()
}
