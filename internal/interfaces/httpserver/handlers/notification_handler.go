package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"upload-gateway/internal/domain/upload"
	"upload-gateway/internal/infrastructure/metrics"
	"upload-gateway/internal/infrastructure/taskqueue"
	"upload-gateway/internal/interfaces/httpserver/requests"
	"upload-gateway/internal/interfaces/httpserver/responses"
)

// NotificationHandler receives authenticated Pub/Sub push deliveries for
// storage events. Authentication has already run as route middleware by the
// time Receive executes.
type NotificationHandler struct {
	filter     *upload.Filter
	dispatcher *upload.Dispatcher
	log        zerolog.Logger
}

func NewNotificationHandler(filter *upload.Filter, dispatcher *upload.Dispatcher, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		filter:     filter,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "notification-handler").Logger(),
	}
}

// Receive filters the notification and dispatches a job for a relevant
// finalize event. Irrelevant and duplicate deliveries are acknowledged with
// 200 so Pub/Sub stops redelivering them.
func (h *NotificationHandler) Receive(c *gin.Context) {
	var req requests.PushNotification
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordNotification("malformed")
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "malformed push envelope"})
		return
	}

	n := req.ToDomain()
	h.log.Info().
		Str("message", n.MessageID).
		Str("event_type", n.EventType).
		Str("bucket", n.BucketID).
		Str("object", n.ObjectID).
		Msg("received upload notification")

	if ok, reason := h.filter.Relevant(n); !ok {
		h.log.Info().Str("message", n.MessageID).Str("reason", reason).Msg("ignoring notification")
		metrics.RecordNotification("ignored")
		c.Status(http.StatusOK)
		return
	}

	job, err := h.dispatcher.Dispatch(c.Request.Context(), n.GCSPath(), n.DedupID())
	if errors.Is(err, taskqueue.ErrDuplicateTask) {
		h.log.Info().Str("message", n.MessageID).Str("object", n.ObjectID).Msg("duplicate delivery, job already dispatched")
		metrics.RecordNotification("duplicate")
		c.Status(http.StatusOK)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("object", n.ObjectID).Msg("job dispatch failed")
		metrics.RecordNotification("error")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to dispatch job"})
		return
	}

	metrics.RecordNotification("dispatched")
	c.JSON(http.StatusCreated, responses.JobResponse{
		JobID:   job.ID,
		TaskID:  job.TaskID,
		GCSPath: job.GCSPath,
	})
}
